// evade is a small arcade game: steer the blue ball with the arrow keys and
// stay clear of the red ones bouncing around the window.
//
// Usage:
//
//	evade play               - Open the game window
//	evade soak               - Run the game headless and check its invariants
//	evade sessions           - Show recent play sessions
//
// Global flags:
//
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plus3/evade/internal/config"
)

var (
	flagLogLevel string
	flagConfig   string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "evade",
	Short: "Dodge the bouncing enemies",
	Long: `evade is a minimal arcade game. The player moves with the arrow keys
inside the window while enemies bounce off the walls.

Examples:
  evade play
  evade play --seed 42 --enemies 10 --debug
  evade soak --frames 100000
  evade sessions --limit 5`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          "evade",
			Level:           level,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.evade/config.yaml, then ./configs/evade.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(soakCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// loadConfig loads the configuration, applies overrides and validates the result.
func loadConfig(override func(*config.Config)) (config.Config, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logger.Debug("config loaded", "source", source)
	return cfg, nil
}

// resolveSeed returns seed, or a time-based seed when it is zero.
func resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
