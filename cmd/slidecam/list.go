package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidecam/internal/config"
	"github.com/vovakirdan/slidecam/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List difficulties and image sources",
	Long:  `Shows the configured difficulty levels and the registered image sources.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}

	levels := cfg.PuzzleLevels()
	fmt.Println("Difficulties:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-8s  %-5s  %s\n", maxIDLen, "ID", "Name", "Grid", "Shuffle")
	fmt.Printf("  %-*s  %-8s  %-5s  %s\n", maxIDLen, "--", "----", "----", "-------")
	for _, l := range levels {
		fmt.Printf("  %-*s  %-8s  %-5s  %d moves\n", maxIDLen, l.ID, l.Name, fmt.Sprintf("%dx%d", l.Cols, l.Rows), l.Moves())
	}

	providers := registry.List()
	fmt.Println()
	fmt.Println("Image sources:")
	fmt.Println()

	maxIDLen = 2
	for _, p := range providers {
		maxIDLen = max(maxIDLen, len(p.ID))
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, p := range providers {
		marker := ""
		if p.ID == cfg.Source.Provider {
			marker = "  (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, p.ID, p.Title, marker)
	}

	fmt.Println()
	fmt.Println("Run 'slidecam play <id>' to play a difficulty.")
}
