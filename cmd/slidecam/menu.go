package main

import (
	"github.com/spf13/cobra"
)

var (
	menuSource  sourceFlags
	flagMenuGUI bool
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the difficulty picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter or a number to pick a difficulty.
Changing difficulty during a puzzle returns here and releases the image source.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/1-9    - Select difficulty
  Tab          - Session history
  Q            - Quit

Examples:
  slidecam menu
  slidecam menu --source pattern
  slidecam menu --fps 15`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuSource.register(menuCmd)
	menuCmd.Flags().BoolVar(&flagMenuGUI, "gui", false, "Open a window instead of using the terminal")
}

func runMenu(_ *cobra.Command, _ []string) {
	if err := play("", menuSource, flagMenuGUI); err != nil {
		fatal("%v", err)
	}
}
