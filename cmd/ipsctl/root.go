package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ipskit/cmd/ipsctl/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string
	logFile    string

	// cfg is loaded before every command runs.
	cfg        Config
	closeLog   = func() error { return nil }
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "ipsctl",
	Short: "Inspect, merge and apply IPS patches to ROM images",
	Long: `ipsctl reads IPS patch containers and applies them to ROM images.
It validates every container strictly: a patch that is truncated or does not
start with the PATCH signature is rejected and no output file is written.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		closeFn, err := logger.Init(logger.Options{Verbose: verbose && !quiet, File: logFile})
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		closeLog = closeFn
		logger.Debug("starting", "command", cmd.Name(), "args", args)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.ipsctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append JSON logs to this file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		_ = closeLog()
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printOK prints a success line if not in quiet mode
func printOK(format string, args ...interface{}) {
	if !quiet {
		okColor.Fprintf(os.Stdout, format, args...)
	}
}

// printWarn prints a warning to stderr
func printWarn(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "Warning: "+format, args...)
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	errorColor.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
