package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/region/alloc"
	"github.com/joshuapare/vramkit/region/backing"
	"github.com/joshuapare/vramkit/region/trace"
)

// fillByte is written into allocated ranges by --fill. Freshly uploaded
// textures start out as all-ones.
const fillByte = 0xFF

var (
	replayVerify bool
	replayFill   bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayVerify, "verify", false, "Check block table invariants after every step")
	cmd.Flags().BoolVar(&replayFill, "fill", false, "Write 0xFF into each allocated range of a backing buffer")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Run an allocation trace",
		Long: `The replay command runs the alloc, free and check steps of a YAML
trace against a fresh region and reports where it ended up. Steps with an
expect block must match it; the first mismatch stops the replay.

Example:
  regionctl replay testdata/walkthrough.yaml
  regionctl replay trace.yaml --verify --fill
  regionctl replay trace.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args)
		},
	}
	return cmd
}

type replaySummary struct {
	Trace     string            `json:"trace"`
	Geometry  geometryJSON      `json:"geometry"`
	Steps     int               `json:"steps"`
	Allocs    int               `json:"allocs"`
	Frees     int               `json:"frees"`
	Failures  int               `json:"failures"`
	Available uint32            `json:"available"`
	Largest   uint32            `json:"largest"`
	Live      map[string]string `json:"live,omitempty"`
	Stats     alloc.Stats       `json:"stats"`
	Error     string            `json:"error,omitempty"`
}

type geometryJSON struct {
	Base      string `json:"base"`
	Size      uint32 `json:"size"`
	BlockSize uint32 `json:"block_size"`
	Blocks    uint32 `json:"blocks"`
}

func newGeometryJSON(g alloc.Geometry) geometryJSON {
	return geometryJSON{
		Base:      hexAddr(g.Base),
		Size:      g.Size,
		BlockSize: g.BlockSize,
		Blocks:    g.Blocks(),
	}
}

func runReplay(ctx context.Context, args []string) error {
	path := args[0]

	ra, rep, err := replayTrace(ctx, path)
	if ra == nil {
		return err
	}

	summary := replaySummary{
		Trace:     path,
		Geometry:  newGeometryJSON(ra.Geometry()),
		Steps:     len(rep.Events),
		Allocs:    rep.Allocs,
		Frees:     rep.Frees,
		Failures:  rep.Failures,
		Available: ra.Available(),
		Largest:   ra.Largest(),
		Stats:     ra.Stats(),
	}
	if len(rep.Live) > 0 {
		summary.Live = make(map[string]string, len(rep.Live))
		for name, a := range rep.Live {
			summary.Live[name] = hexAddr(a)
		}
	}
	if err != nil {
		summary.Error = err.Error()
	}

	if jsonOut {
		if jerr := printJSON(summary); jerr != nil {
			return jerr
		}
		return err
	}

	printSummary(summary)
	return err
}

// replayTrace decodes and runs the trace at path. It returns a nil allocator
// only when the trace could not be started.
func replayTrace(ctx context.Context, path string) (*alloc.RegionAllocator, *trace.Report, error) {
	printVerbose("Loading trace: %s\n", path)
	s, err := trace.DecodeFile(path)
	if err != nil {
		return nil, nil, err
	}

	ra, err := s.NewAllocator(flagGeometry())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var mem *backing.Memory
	if replayFill {
		mem, err = backing.Open(ra.Geometry())
		if err != nil {
			return nil, nil, err
		}
		defer mem.Close()
	}

	opts := trace.Options{
		AfterStep: func(ev trace.Event) error {
			printVerbose("%s\n", formatEvent(ev))
			if replayVerify {
				if err := ra.Check(); err != nil {
					return err
				}
			}
			if mem != nil && ev.Op == trace.OpAlloc && ev.Err == nil {
				n, _ := ra.SizeOf(ev.Addr)
				return mem.Fill(ev.Addr, n, fillByte)
			}
			return nil
		},
	}

	rep, err := trace.Replay(ctx, ra, s, opts)
	return ra, rep, err
}

func formatEvent(ev trace.Event) string {
	line := fmt.Sprintf("  %3d  %-5s", ev.Step, ev.Op)
	switch ev.Op {
	case trace.OpAlloc:
		line += fmt.Sprintf("  %-8s %8d  -> %s", ev.Name, ev.Size, hexAddr(ev.Addr))
	case trace.OpFree:
		line += fmt.Sprintf("  %-8s %8s     %s", ev.Name, "", hexAddr(ev.Addr))
	case trace.OpCheck:
		line += fmt.Sprintf("  largest=%d", ev.Largest)
	}
	if ev.Err != nil {
		line += "  [" + trace.ErrorName(ev.Err) + "]"
	}
	return line + fmt.Sprintf("  available=%d", ev.Available)
}

func printSummary(s replaySummary) {
	printInfo("Trace:      %s\n", s.Trace)
	printInfo("Region:     %s + %d bytes (%d x %d)\n", s.Geometry.Base, s.Geometry.Size, s.Geometry.Blocks, s.Geometry.BlockSize)
	printInfo("Steps:      %d (%d allocs, %d frees, %d failures)\n", s.Steps, s.Allocs, s.Frees, s.Failures)
	printInfo("Available:  %d bytes\n", s.Available)
	printInfo("Largest:    %d bytes\n", s.Largest)
	if len(s.Live) > 0 {
		printInfo("Live:       %d named allocation(s)\n", len(s.Live))
	}
	printVerbose("Stats:      %+v\n", s.Stats)
}

func hexAddr(a uint32) string {
	return fmt.Sprintf("0x%08x", a)
}
