package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newConfigTestCmd builds a command with the geometry flags bound to fresh
// variables so tests do not disturb the root command.
func newConfigTestCmd(base, blockSize *uint32, verbose *bool) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Uint32Var(base, "base", 0x04000000, "")
	cmd.Flags().Uint32Var(blockSize, "block-size", 512, "")
	cmd.Flags().BoolVar(verbose, "verbose", false, "")
	return cmd
}

func TestInitializeConfig_File(t *testing.T) {
	resetFlags(t)
	t.Setenv("HOME", t.TempDir())
	cfgFile = filepath.Join(t.TempDir(), "regionctl.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("base: 0x08000000\nblock-size: 1024\n"), 0o644))

	var base, blockSize uint32
	var v bool
	cmd := newConfigTestCmd(&base, &blockSize, &v)
	require.NoError(t, initializeConfig(cmd))
	require.Equal(t, uint32(0x08000000), base)
	require.Equal(t, uint32(1024), blockSize)
}

func TestInitializeConfig_Env(t *testing.T) {
	resetFlags(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REGIONCTL_BLOCK_SIZE", "2048")
	t.Setenv("REGIONCTL_VERBOSE", "true")

	var base, blockSize uint32
	var v bool
	cmd := newConfigTestCmd(&base, &blockSize, &v)
	require.NoError(t, initializeConfig(cmd))
	require.Equal(t, uint32(2048), blockSize)
	require.Equal(t, uint32(0x04000000), base)
	require.True(t, v)
}

func TestInitializeConfig_FlagWins(t *testing.T) {
	resetFlags(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REGIONCTL_BLOCK_SIZE", "2048")

	var base, blockSize uint32
	var v bool
	cmd := newConfigTestCmd(&base, &blockSize, &v)
	require.NoError(t, cmd.Flags().Set("block-size", "256"))
	require.NoError(t, initializeConfig(cmd))
	require.Equal(t, uint32(256), blockSize)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	resetFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	var base, blockSize uint32
	var v bool
	require.Error(t, initializeConfig(newConfigTestCmd(&base, &blockSize, &v)))
}
