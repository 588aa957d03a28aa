package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/internal/format"
	"github.com/joshuapare/vramkit/region/alloc"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version  string       `json:"version"`
	Commit   string       `json:"commit"`
	Built    string       `json:"built"`
	Go       string       `json:"go,omitempty"`
	Defaults geometryJSON `json:"defaults"`
	MaxRun   uint32       `json:"max_run_blocks"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and the default region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func buildVersionInfo() versionInfo {
	info := versionInfo{
		Version:  version,
		Commit:   commit,
		Built:    date,
		Defaults: newGeometryJSON(alloc.DefaultGeometry()),
		MaxRun:   format.MaxBlocks,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Go = bi.GoVersion
		// Untagged builds installed with go install carry the module version.
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

func runVersion() error {
	info := buildVersionInfo()
	if jsonOut {
		return printJSON(info)
	}

	printInfo("regionctl %s\n", info.Version)
	printInfo("  commit: %s\n", info.Commit)
	printInfo("  built:  %s\n", info.Built)
	if info.Go != "" {
		printInfo("  go:     %s\n", info.Go)
	}
	d := info.Defaults
	printInfo("  region: %s + %d bytes (%d x %d)\n", d.Base, d.Size, d.Blocks, d.BlockSize)
	printInfo("  max run: %d blocks\n", info.MaxRun)
	return nil
}
