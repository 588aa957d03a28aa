package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStressCommand(t *testing.T) {
	resetFlags(t)
	regionSize = 0x10000

	output, err := captureOutput(t, func() error {
		return runStress(context.Background())
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Ops:            2000 (seed 1)", "Invariants held after every operation"})
}

func TestStressCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	regionSize = 0x8000
	regionBlockSize = 256
	stressSeed = 99

	output, err := captureOutput(t, func() error {
		return runStress(context.Background())
	})
	require.NoError(t, err)

	var got stressResult
	decodeJSON(t, output, &got)
	require.Equal(t, int64(99), got.Seed)
	require.Equal(t, uint32(128), got.Geometry.Blocks)
	require.Positive(t, got.Stats.AllocCalls)
	require.LessOrEqual(t, got.PeakUsed, uint32(0x8000))
}

func TestStressCommand_Deterministic(t *testing.T) {
	run := func() string {
		resetFlags(t)
		jsonOut = true
		regionSize = 0x10000
		out, err := captureOutput(t, func() error {
			return runStress(context.Background())
		})
		require.NoError(t, err)
		return out
	}
	require.Equal(t, run(), run())
}

func TestStressCommand_BadInput(t *testing.T) {
	resetFlags(t)
	stressMaxSize = 0
	require.Error(t, runStress(context.Background()))

	resetFlags(t)
	regionBlockSize = 300
	require.Error(t, runStress(context.Background()))
}

func TestStressCommand_Canceled(t *testing.T) {
	resetFlags(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, runStress(ctx), context.Canceled)
}
