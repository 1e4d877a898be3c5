// slidecam is a sliding-tile puzzle whose tiles show a live image source.
//
// Usage:
//
//	slidecam list                - List difficulties and image sources
//	slidecam play [level]        - Play in the terminal (or a window with --gui)
//	slidecam menu                - Start with the difficulty picker
//	slidecam serve               - Start SSH server for remote play
//	slidecam history             - Show recent sessions
//	slidecam snapshot <lvl> <f>  - Render one frame to PNG
//	slidecam config              - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Set redraw rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible shuffles
//	--db <path>         - Set database path (default: ~/.slidecam/history.db)
//	--config <path>     - Use a custom config file
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Log file for terminal play (default: ~/.slidecam/slidecam.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import providers to register them
	_ "github.com/vovakirdan/slidecam/internal/source/camera"
	_ "github.com/vovakirdan/slidecam/internal/source/pattern"
	_ "github.com/vovakirdan/slidecam/internal/source/still"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slidecam",
	Short: "SlideCam - a sliding puzzle over your webcam",
	Long: `SlideCam cuts a live image into a grid of tiles, leaves one cell empty
and shuffles the board. Click a tile next to the gap to slide it.

The image comes from a webcam, a picture or GIF, or a built-in test pattern.

Available commands:
  list      - Show difficulties and image sources
  play      - Play a specific difficulty directly
  menu      - Interactive difficulty picker
  serve     - Start SSH server for remote play
  history   - View recent sessions
  snapshot  - Render one frame to a PNG file
  config    - Print the effective configuration

Examples:
  slidecam list
  slidecam play easy
  slidecam play hard --source image --image ./cat.gif
  slidecam play medium --gui
  slidecam serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.slidecam/history.db", "Path to session history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for terminal play (default ~/.slidecam/slidecam.log)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
}
