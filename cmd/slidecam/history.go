package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/slidecam/internal/platform/tui"
	"github.com/vovakirdan/slidecam/internal/storage"
)

var (
	flagHistoryLimit       int
	flagHistoryInteractive bool
	flagHistoryClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sessions",
	Long: `Display recent puzzle sessions and per-level totals.

Each session records its level, image source, how it ended and why the
source failed, if it did. Puzzle boards themselves are never saved.

Examples:
  slidecam history
  slidecam history --limit 50
  slidecam history -i
  slidecam history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of sessions to show")
	historyCmd.Flags().BoolVarP(&flagHistoryInteractive, "interactive", "i", false, "Browse history in a table")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded sessions")
}

func runHistory(_ *cobra.Command, _ []string) {
	if err := showHistory(); err != nil {
		fatal("%v", err)
	}
}

// showHistory prints or browses the history database. It returns instead of
// exiting so the store is closed.
func showHistory() error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearSessions(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	if flagHistoryInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunHistory(store, width, height)
	}

	sessions, err := store.RecentSessions(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("retrieving sessions: %w", err)
	}

	fmt.Println("Recent sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'slidecam play easy' to start one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-16s  %-8s  %-5s  %-8s  %-10s  %-8s  %s\n", "Started", "Level", "Grid", "Source", "Outcome", "Time", "Source error")
	fmt.Printf("  %-16s  %-8s  %-5s  %-8s  %-10s  %-8s  %s\n", "-------", "-----", "----", "------", "-------", "----", "------------")

	for _, s := range sessions {
		elapsed := "-"
		if d := s.Duration(); d > 0 {
			elapsed = d.Round(time.Second).String()
		}
		failure := s.Failure
		if failure == "" {
			failure = "-"
		}
		fmt.Printf("  %-16s  %-8s  %-5s  %-8s  %-10s  %-8s  %s\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			s.Level,
			fmt.Sprintf("%dx%d", s.Cols, s.Rows),
			s.Provider,
			s.Outcome,
			elapsed,
			failure,
		)
	}

	stats, err := store.LevelStats()
	if err != nil {
		return fmt.Errorf("retrieving totals: %w", err)
	}
	fmt.Println()
	fmt.Println("Totals")
	fmt.Println()
	for _, st := range stats {
		fmt.Printf("  %-8s  %d played, %d solved, %d abandoned, last %s\n",
			st.Level, st.Sessions, st.Solved, st.Abandoned, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
