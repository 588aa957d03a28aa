package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/internal/format"
	"github.com/joshuapare/vramkit/internal/logger"
	"github.com/joshuapare/vramkit/region/alloc"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	cfgFile string
	logDir  string

	// Region geometry, overridden per trace by its geometry block
	regionBase      uint32
	regionSize      uint32
	regionBlockSize uint32
)

var rootCmd = &cobra.Command{
	Use:   "regionctl",
	Short: "Replay and inspect block-table region allocations",
	Long: `regionctl drives the block-table region allocator outside of a
program. It replays allocation traces, draws the resulting block map, runs
seeded stress workloads with invariant checks after every operation, and
converts between absolute, relative and uncached addresses.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return err
		}
		return initLogging()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.regionctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory")

	// Geometry flags
	rootCmd.PersistentFlags().Uint32Var(&regionBase, "base", format.DefaultBase, "Region base address")
	rootCmd.PersistentFlags().Uint32Var(&regionSize, "size", format.DefaultRegionSize, "Region size in bytes")
	rootCmd.PersistentFlags().Uint32Var(&regionBlockSize, "block-size", format.DefaultBlockSize, "Allocation granule in bytes")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func initLogging() error {
	opts := logger.Options{
		Enabled: verbose || logDir != "",
		LogDir:  logDir,
		JSON:    jsonOut,
		Level:   slog.LevelInfo,
	}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	return logger.Init(opts)
}

// flagGeometry returns the region described by the geometry flags.
func flagGeometry() alloc.Geometry {
	return alloc.Geometry{
		Base:      regionBase,
		Size:      regionSize,
		BlockSize: regionBlockSize,
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
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
