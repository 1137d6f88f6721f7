package main

import (
	"github.com/spf13/cobra"

	"github.com/plus3/evade/internal/app"
	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/session"
)

var (
	flagPlaySeed    uint64
	flagPlayEnemies int
	flagPlayDebug   bool
	flagPlayMute    bool
	flagPlayDB      string
	flagPlayNoSave  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	Long: `Open the game window and play until Escape or Q is pressed.
R restarts the round. Each round is recorded in the session history.

Examples:
  evade play
  evade play --enemies 12 --mute
  evade play --debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Uint64Var(&flagPlaySeed, "seed", 0, "RNG seed (0 = random based on time)")
	playCmd.Flags().IntVar(&flagPlayEnemies, "enemies", -1, "Number of enemies (-1 = from config)")
	playCmd.Flags().BoolVar(&flagPlayDebug, "debug", false, "Show the debug overlay")
	playCmd.Flags().BoolVar(&flagPlayMute, "mute", false, "Disable sound")
	playCmd.Flags().StringVar(&flagPlayDB, "db", "", "Session database path (default: from config)")
	playCmd.Flags().BoolVar(&flagPlayNoSave, "no-history", false, "Do not record sessions")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if flagPlayEnemies >= 0 {
			c.Game.NumberOfEnemies = flagPlayEnemies
		}
		if flagPlayDB != "" {
			c.Session.DBPath = flagPlayDB
		}
	})
	if err != nil {
		return err
	}

	var store *session.Store
	if !flagPlayNoSave {
		store, err = session.Open(cfg.Session.DBPath)
		if err != nil {
			logger.Warn("session history disabled", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	return app.Run(app.Options{
		Config: cfg,
		Seed:   resolveSeed(flagPlaySeed),
		Debug:  flagPlayDebug,
		Mute:   flagPlayMute,
		Logger: logger,
		Store:  store,
	})
}
