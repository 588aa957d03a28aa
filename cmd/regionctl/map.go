package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/region/alloc"
)

const (
	barWidth = 64

	glyphAllocated = "█"
	glyphFree      = "░"
	glyphMixed     = "▒"
)

var mapWidth int

func init() {
	cmd := newMapCmd()
	cmd.Flags().IntVar(&mapWidth, "width", barWidth, "Cells in the occupancy bar")
	rootCmd.AddCommand(cmd)
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <trace>",
		Short: "Replay a trace and draw the block map",
		Long: `The map command replays a trace and prints every block head in
address order followed by an occupancy bar. Each bar cell covers an equal share
of the region: solid when fully allocated, light when fully free, and shaded
when it holds both.

Example:
  regionctl map testdata/fragmentation.yaml
  regionctl map trace.yaml --width 32 --no-color
  regionctl map trace.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd.Context(), args)
		},
	}
	return cmd
}

type blockJSON struct {
	Index    uint32 `json:"index"`
	Addr     string `json:"addr"`
	Granules uint32 `json:"granules"`
	Size     uint32 `json:"size"`
	Free     bool   `json:"free"`
}

type mapOutput struct {
	Geometry      geometryJSON `json:"geometry"`
	Blocks        []blockJSON  `json:"blocks"`
	Available     uint32       `json:"available"`
	Largest       uint32       `json:"largest"`
	Fragmentation float64      `json:"fragmentation"`
	Error         string       `json:"error,omitempty"`
}

func runMap(ctx context.Context, args []string) error {
	ra, _, err := replayTrace(ctx, args[0])
	if ra == nil {
		return err
	}

	out := mapOutput{
		Geometry:      newGeometryJSON(ra.Geometry()),
		Available:     ra.Available(),
		Largest:       ra.Largest(),
		Fragmentation: fragmentation(ra),
	}
	for b := range ra.Blocks() {
		out.Blocks = append(out.Blocks, blockJSON{
			Index:    b.Index,
			Addr:     hexAddr(b.Addr),
			Granules: b.Granules,
			Size:     b.Size,
			Free:     b.Free,
		})
	}
	if err != nil {
		out.Error = err.Error()
	}

	if jsonOut {
		if jerr := printJSON(out); jerr != nil {
			return jerr
		}
		return err
	}

	printInfo("%s\n", renderBlockTable(out.Blocks))
	printInfo("%s\n", renderBar(ra, mapWidth))
	printInfo("Available: %d  Largest: %d  Fragmentation: %.1f%%\n",
		out.Available, out.Largest, out.Fragmentation*100)
	return err
}

// fragmentation is the share of free space outside the largest free run.
func fragmentation(ra *alloc.RegionAllocator) float64 {
	avail := ra.Available()
	if avail == 0 {
		return 0
	}
	return 1 - float64(ra.Largest())/float64(avail)
}

func renderBlockTable(blocks []blockJSON) string {
	var sb strings.Builder
	sb.WriteString(style(headerStyle).Render(fmt.Sprintf("%-6s %-10s %8s %10s  %s", "INDEX", "ADDR", "GRANULES", "BYTES", "STATE")))
	for _, b := range blocks {
		state := style(allocatedStyle).Render("allocated")
		if b.Free {
			state = style(freeStyle).Render("free")
		}
		fmt.Fprintf(&sb, "\n%-6d %-10s %8d %10d  %s", b.Index, b.Addr, b.Granules, b.Size, state)
	}
	return sb.String()
}

// renderBar draws one cell per width-th of the region.
func renderBar(ra *alloc.RegionAllocator, width int) string {
	blocks := ra.Geometry().Blocks()
	if width <= 0 || uint32(width) > blocks {
		width = int(blocks)
	}

	used := make([]bool, blocks)
	for b := range ra.Blocks() {
		if b.Free {
			continue
		}
		for i := b.Index; i < b.Index+b.Granules; i++ {
			used[i] = true
		}
	}

	var sb strings.Builder
	for c := range width {
		lo := uint32(c) * blocks / uint32(width)
		hi := uint32(c+1) * blocks / uint32(width)
		var n uint32
		for _, u := range used[lo:hi] {
			if u {
				n++
			}
		}
		switch {
		case n == 0:
			sb.WriteString(style(freeStyle).Render(glyphFree))
		case n == hi-lo:
			sb.WriteString(style(allocatedStyle).Render(glyphAllocated))
		default:
			sb.WriteString(style(mixedStyle).Render(glyphMixed))
		}
	}

	legend := style(mutedStyle).Render(fmt.Sprintf("%s allocated  %s free  %s mixed  (%d granules per cell)",
		glyphAllocated, glyphFree, glyphMixed, blocks/uint32(width)))
	return style(barStyle).Render(lipgloss.JoinVertical(lipgloss.Left, sb.String(), legend))
}
