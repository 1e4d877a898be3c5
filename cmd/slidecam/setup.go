package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/config"
	"github.com/vovakirdan/slidecam/internal/game"
	"github.com/vovakirdan/slidecam/internal/registry"
	"github.com/vovakirdan/slidecam/internal/source"
	"github.com/vovakirdan/slidecam/internal/storage"
)

// fatal prints an error the way every command reports it and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// sourceFlags override the config's source section.
type sourceFlags struct {
	provider string
	image    string
	device   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "source", "", "Image source: camera, image, pattern (default from config)")
	cmd.Flags().StringVar(&f.image, "image", "", "Picture or GIF for the image source")
	cmd.Flags().StringVar(&f.device, "device", "", "Video device for the camera source")
}

// apply writes the flags over sc. --image on its own selects the image source.
func (f sourceFlags) apply(sc *config.SourceConfig) {
	if f.image != "" {
		sc.Image = f.image
		sc.Provider = "image"
	}
	if f.device != "" {
		sc.Device = f.device
	}
	if f.provider != "" {
		sc.Provider = f.provider
	}
}

// newLogger creates a logger at the --log-level level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "slidecam",
		Level:           level,
	}), nil
}

// fileLogger logs to --log-file so the alternate screen stays clean.
func fileLogger() (*log.Logger, func(), error) {
	path := flagLogFile
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "slidecam.log")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// openStore opens the history database. Play continues without history
// when it cannot be opened.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		return nil
	}
	return store
}

// playSetup is everything a frontend needs to run a session.
type playSetup struct {
	cfg      config.Config
	provider source.Provider
	request  source.Request
	render   compositor.Options
	aspectW  int
	aspectH  int
	store    *storage.Store
	session  *game.Session
}

// newPlaySetup resolves the source and render settings and creates a session.
func newPlaySetup(cfg config.Config, flags sourceFlags, logger *log.Logger, withHistory bool) (*playSetup, error) {
	flags.apply(&cfg.Source)

	provider, err := registry.Create(cfg.Source.Provider)
	if err != nil {
		return nil, err
	}
	render, err := cfg.Render.Options()
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	aw, ah, err := cfg.Render.AspectRatio()
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}

	s := &playSetup{
		cfg:      cfg,
		provider: provider,
		request:  cfg.Source.Request(),
		render:   render,
		aspectW:  aw,
		aspectH:  ah,
	}

	var recorder game.Recorder
	if withHistory {
		if s.store = openStore(logger); s.store != nil {
			recorder = s.store
		}
	}

	s.session = game.New(game.Options{
		Levels:   cfg.PuzzleLevels(),
		Provider: provider.ID(),
		Seed:     flagSeed,
		Render:   render,
		Recorder: recorder,
		Logger:   logger,
	})

	logger.Debug("config loaded", "from", cfg.LoadedFrom, "provider", provider.ID(), "levels", len(cfg.Levels))
	return s, nil
}

// Close closes the session and the history database.
func (s *playSetup) Close() {
	s.session.Close()
	if s.store != nil {
		s.store.Close()
	}
}
