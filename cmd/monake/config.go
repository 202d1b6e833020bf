package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/monake/internal/config"
)

var (
	flagConfigPreset  string
	flagConfigDefault bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration Monake would play with, as YAML.

The config is looked up in this order: --config, ~/.monake/configs/monake.yaml,
./configs/monake.yaml, then the built-in default.

Examples:
  monake config
  monake config --preset hard
  monake config --default > ~/.monake/configs/monake.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigPreset, "preset", "", "Apply a difficulty preset before printing")
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in default config")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigDefault {
		_, err := os.Stdout.Write(config.GetDefaultYAML())
		return err
	}

	cfg, err := config.LoadMonake(flagConfig)
	if err != nil {
		return err
	}

	if flagConfigPreset != "" {
		preset, err := config.ParsePreset(flagConfigPreset)
		if err != nil {
			return err
		}
		config.ApplyMonakePreset(&cfg, preset)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
