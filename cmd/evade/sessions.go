package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/session"
)

var (
	flagSessionsLimit int
	flagSessionsDB    string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent play sessions",
	Long: `Display the most recent play sessions and the longest survival.

Examples:
  evade sessions
  evade sessions --limit 25`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 10, "Number of sessions to show")
	sessionsCmd.Flags().StringVar(&flagSessionsDB, "db", "", "Session database path (default: from config)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if flagSessionsDB != "" {
			c.Session.DBPath = flagSessionsDB
		}
	})
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	recent, err := store.Recent(flagSessionsLimit)
	if err != nil {
		return err
	}
	longest, ok, err := store.Longest()
	if err != nil {
		return err
	}

	printSessions(cmd.OutOrStdout(), recent, longest, ok)
	return nil
}

func printSessions(w io.Writer, recent []session.Record, longest session.Record, hasLongest bool) {
	fmt.Fprintln(w, "Recent Sessions")
	fmt.Fprintln(w)

	if len(recent) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'evade play' to start one!")
		return
	}

	fmt.Fprintf(w, "  %-16s  %8s  %7s  %7s  %5s  %s\n", "Date", "Seconds", "Bounces", "Near", "Enemy", "Seed")
	fmt.Fprintf(w, "  %-16s  %8s  %7s  %7s  %5s  %s\n", "----", "-------", "-------", "----", "-----", "----")
	for _, r := range recent {
		fmt.Fprintf(w, "  %-16s  %8.1f  %7d  %7d  %5d  %d\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Seconds, r.Bounces, r.Proximity, r.Enemies, r.Seed)
	}

	if hasLongest {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Longest: %.1fs on %s (seed %d)\n", longest.Seconds, longest.StartedAt.Format("2006-01-02 15:04"), longest.Seed)
	}
}
