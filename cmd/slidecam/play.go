package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/slidecam/internal/config"
	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/platform/gui"
	"github.com/vovakirdan/slidecam/internal/platform/tui"
	"github.com/vovakirdan/slidecam/internal/puzzle"
)

var (
	playSource sourceFlags
	flagGUI    bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a puzzle",
	Long: `Start a puzzle at the given difficulty, or pick one from the menu.

Controls:
  Mouse click  - Slide the clicked tile into the gap
  R            - Reshuffle at the same difficulty
  B/Esc        - Change difficulty
  Tab          - Session history
  Q/Ctrl+C     - Quit

With --gui the puzzle opens in a window; 1-3 pick a difficulty there.

Examples:
  slidecam play easy
  slidecam play hard --source pattern
  slidecam play medium --image ./cat.gif
  slidecam play easy --device /dev/video2
  slidecam play --gui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playSource.register(playCmd)
	playCmd.Flags().BoolVar(&flagGUI, "gui", false, "Open a window instead of using the terminal")
}

func runPlay(_ *cobra.Command, args []string) {
	levelID := ""
	if len(args) > 0 {
		levelID = args[0]
	}
	if err := play(levelID, playSource, flagGUI); err != nil {
		fatal("%v", err)
	}
}

// play runs a frontend until the user quits. An empty levelID starts at the menu.
// Errors are returned so deferred cleanup runs before the process exits.
func play(levelID string, flags sourceFlags, windowed bool) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if levelID != "" {
		if _, ok := cfg.FindLevel(levelID); !ok {
			return fmt.Errorf("unknown level %q (available: %s)",
				levelID, strings.Join(puzzle.LevelIDs(cfg.PuzzleLevels()), ", "))
		}
	}

	if windowed {
		return runWindow(cfg, levelID, flags)
	}

	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	setup, err := newPlaySetup(cfg, flags, logger, true)
	if err != nil {
		return err
	}
	defer setup.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runErr := tui.Run(tui.Options{
		Session:  setup.session,
		Provider: setup.provider,
		Request:  setup.request,
		Store:    setup.store,
		Config: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		AspectW: setup.aspectW,
		AspectH: setup.aspectH,
		Fill:    cfg.Render.Fill,
		Logger:  logger,
	}, levelID)
	if runErr != nil {
		return fmt.Errorf("running puzzle: %w", runErr)
	}
	return nil
}

// runWindow plays in an Ebitengine window, logging to stderr.
func runWindow(cfg config.Config, levelID string, flags sourceFlags) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	setup, err := newPlaySetup(cfg, flags, logger, true)
	if err != nil {
		return err
	}
	defer setup.Close()

	return gui.Run(gui.Options{
		Session:  setup.session,
		Provider: setup.provider,
		Request:  setup.request,
		Level:    levelID,
		SurfaceW: cfg.Render.SurfaceWidth,
		SurfaceH: cfg.Render.SurfaceHeight,
		AspectW:  setup.aspectW,
		AspectH:  setup.aspectH,
		Fill:     cfg.Render.Fill,
		TickRate: flagFPS,
		Logger:   logger,
	})
}
