// Package cmd implements adcollect's cobra command tree: config loading via
// internal/configutil, collector construction via internal/adlib, and
// output formatting via internal/report.
package cmd

import (
	"fmt"
	"os"

	"adlibrary-collector/internal/adlib"
	"adlibrary-collector/internal/components/telemetry"
	"adlibrary-collector/internal/configutil"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "adcollect",
	Short: "adcollect searches and collects ads from the Meta Ad Library.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "adcollect.json5", "path to a JSON5 config file (.local override supported)")
}

// Execute runs the root command, exiting nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configPath via internal/configutil, falling back to
// adlib.DefaultConfig when no config file is present.
func loadConfig() (adlib.Config, error) {
	cfg, err := configutil.ReadConfig[adlib.Config](configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return adlib.DefaultConfig(), nil
		}
		return adlib.Config{}, fmt.Errorf("read config %s: %w", configPath, err)
	}
	return cfg, nil
}

func newCollector() (*adlib.Collector, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return adlib.New(cfg, telemetry.SlogAPI{})
}
