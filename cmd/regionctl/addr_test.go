package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddrCommand(t *testing.T) {
	tests := []struct {
		mode  string
		value string
		want  string
	}{
		{"rel", "0x04088000", "0x00088000"},
		{"abs", "0x88000", "0x04088000"},
		{"uncached", "0x04000000", "0x44000000"},
		{"cached", "0x44000200", "0x04000200"},
		{"abs", "557056", "0x04088000"},
	}

	for _, tt := range tests {
		t.Run(tt.mode+" "+tt.value, func(t *testing.T) {
			resetFlags(t)
			quiet = true
			output, err := captureOutput(t, func() error {
				return runAddr([]string{tt.mode, tt.value})
			})
			require.NoError(t, err)
			require.Equal(t, tt.want+"\n", output)
		})
	}
}

func TestAddrCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	output, err := captureOutput(t, func() error {
		return runAddr([]string{"rel", "0x04000200"})
	})
	require.NoError(t, err)

	var got map[string]string
	decodeJSON(t, output, &got)
	require.Equal(t, map[string]string{"mode": "rel", "input": "0x04000200", "output": "0x00000200"}, got)
}

func TestAddrCommand_Errors(t *testing.T) {
	resetFlags(t)
	require.ErrorContains(t, runAddr([]string{"phys", "0x0"}), "unknown mode")
	require.ErrorContains(t, runAddr([]string{"rel", "0x100000000"}), "invalid address")
	require.ErrorContains(t, runAddr([]string{"rel", "zz"}), "invalid address")
}
