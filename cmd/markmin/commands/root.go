// Package commands implements the CLI commands for markmin.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/markmin/internal/config"
	"github.com/jmylchreest/markmin/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "markmin",
	Short: "Safe HTML minifier",
	Long: `Markmin minifies HTML without touching what must not change.

Content of <pre>, <textarea>, <script> and <style> is copied byte for byte,
comments carrying a keep marker survive, and malformed markup is passed
through instead of rejected.

Examples:
  # Minify a file to stdout
  markmin minify page.html

  # Minify stdin with the aggressive preset and print stats
  cat page.html | markmin minify --preset aggressive --stats

  # Fetch a rendered page, minify it and check the result
  markmin minify https://example.com --render --verify -o out.html

  # Compare presets against a full HTML minifier
  markmin compare page.html`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.markmin.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.json", flags.Lookup("log-json"))
}

func initConfig() {
	config.Configure(viper.GetViper(), cfgFile)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings resolves the configuration for a command run and initializes
// the logger from it.
func loadSettings() (*config.File, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return nil, err
	}

	if err := logger.Init(logger.Options{
		Level: settings.Log.Level,
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  settings.Log.JSON,
	}); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return settings, nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
