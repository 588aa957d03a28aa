package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/internal/logger"
	"github.com/joshuapare/vramkit/region/alloc"
)

var (
	stressOps     int
	stressSeed    int64
	stressMaxSize uint32
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of alloc/free operations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().Uint32Var(&stressMaxSize, "max-size", 64<<10, "Largest single request in bytes")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a seeded random alloc/free workload",
		Long: `The stress command allocates and frees random sizes against a fresh
region, checking every block table invariant after each operation. A failure
prints the operation number and seed so the run can be reproduced.

Example:
  regionctl stress --ops 100000 --seed 7
  regionctl stress --size 0x10000 --block-size 256 --max-size 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context())
		},
	}
	return cmd
}

type stressResult struct {
	Geometry      geometryJSON `json:"geometry"`
	Seed          int64        `json:"seed"`
	Ops           int          `json:"ops"`
	Live          int          `json:"live"`
	PeakUsed      uint32       `json:"peak_used"`
	Available     uint32       `json:"available"`
	Largest       uint32       `json:"largest"`
	Fragmentation float64      `json:"fragmentation"`
	Stats         alloc.Stats  `json:"stats"`
}

func runStress(ctx context.Context) error {
	if stressMaxSize == 0 {
		return errors.New("--max-size must be positive")
	}

	ra, err := alloc.New(flagGeometry(), alloc.WithStrict(true))
	if err != nil {
		return err
	}
	g := ra.Geometry()
	rng := rand.New(rand.NewSource(stressSeed))

	type live struct {
		addr alloc.Addr
		size uint32
	}
	var (
		blocks   []live
		peakUsed uint32
	)

	printVerbose("Stressing %d ops, seed %d, sizes 1..%d\n", stressOps, stressSeed, stressMaxSize)

	for op := range stressOps {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Bias towards allocation while the region is mostly empty.
		if len(blocks) == 0 || rng.Intn(100) < 55 {
			size := 1 + uint32(rng.Int63n(int64(stressMaxSize)))
			a, err := ra.Alloc(size)
			switch {
			case errors.Is(err, alloc.ErrNoSpace):
			case err != nil:
				return fmt.Errorf("op %d (seed %d): alloc %d: %w", op, stressSeed, size, err)
			default:
				n, _ := ra.SizeOf(a)
				blocks = append(blocks, live{addr: a, size: n})
			}
		} else {
			i := rng.Intn(len(blocks))
			if err := ra.Free(blocks[i].addr); err != nil {
				return fmt.Errorf("op %d (seed %d): free %s: %w", op, stressSeed, hexAddr(blocks[i].addr), err)
			}
			blocks[i] = blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
		}

		if used := g.Size - ra.Available(); used > peakUsed {
			peakUsed = used
		}
		if err := ra.Check(); err != nil {
			logger.Error("invariant violated", "op", op, "seed", stressSeed, "err", err)
			return fmt.Errorf("op %d (seed %d): %w", op, stressSeed, err)
		}
	}

	res := stressResult{
		Geometry:      newGeometryJSON(g),
		Seed:          stressSeed,
		Ops:           stressOps,
		Live:          len(blocks),
		PeakUsed:      peakUsed,
		Available:     ra.Available(),
		Largest:       ra.Largest(),
		Fragmentation: fragmentation(ra),
		Stats:         ra.Stats(),
	}

	// Drain and make sure everything coalesces back.
	for _, b := range blocks {
		if err := ra.Free(b.addr); err != nil {
			return fmt.Errorf("drain: free %s: %w", hexAddr(b.addr), err)
		}
	}
	if ra.Available() != g.Size || ra.Largest() != g.Size {
		return fmt.Errorf("drain: %d bytes free in a largest run of %d, want %d", ra.Available(), ra.Largest(), g.Size)
	}

	if jsonOut {
		return printJSON(res)
	}

	s := res.Stats
	printInfo("Ops:            %d (seed %d)\n", res.Ops, res.Seed)
	printInfo("Allocs:         %d calls, %d failed (%d by cache)\n", s.AllocCalls, s.AllocFailures, s.FastRejects)
	printInfo("Frees:          %d\n", s.FreeCalls)
	printInfo("Splits:         %d\n", s.Splits)
	printInfo("Coalesces:      %d backward, %d forward\n", s.CoalesceBackward, s.CoalesceForward)
	printInfo("Rescans:        %d\n", s.Rescans)
	printInfo("Peak used:      %d of %d bytes\n", res.PeakUsed, g.Size)
	printInfo("Live at end:    %d blocks, %d bytes free, largest run %d\n", res.Live, res.Available, res.Largest)
	printInfo("Fragmentation:  %.1f%%\n", res.Fragmentation*100)
	printInfo("Invariants held after every operation\n")
	return nil
}
