// gpdctl is the operator CLI for the populism atlas: dataset import,
// offline choropleth rendering and boundary coverage checks.
//
// Usage:
//
//	gpdctl import <gpd.csv>
//	gpdctl render --csv=<gpd.csv> --boundaries=<file|url> [--color-mode=ideology] [-o out.geojson]
//	gpdctl coverage --csv=<gpd.csv> --boundaries=<file|url> [--strict]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	envFile   string
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "gpdctl",
	Short: "Global Populism Database atlas tooling",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		config.LoadDotEnv(rootFlags.envFile)
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat, cmd.ErrOrStderr())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.envFile, "env-file", ".env", "dotenv file loaded before reading config")
	pf.StringVar(&rootFlags.logLevel, "log-level", "warn", "debug|info|warn|error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "text|json")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
