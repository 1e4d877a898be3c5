package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidecam/internal/config"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration slidecam would use, as YAML.

Config files are searched in order:
  1. --config <path>
  2. ~/.slidecam/config.yaml
  3. ./configs/slidecam.yaml
  4. the built-in defaults

Examples:
  slidecam config
  slidecam config --default > ~/.slidecam/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in default config")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefault {
		os.Stdout.Write(config.GetDefaultYAML())
		return
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("# loaded from: %s\n", cfg.LoadedFrom)
	os.Stdout.Write(data)
}
