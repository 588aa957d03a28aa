package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vramkit/region/addr"
)

var addrModes = map[string]func(uint32) uint32{
	"rel":      addr.Relative,
	"abs":      addr.Absolute,
	"uncached": addr.Uncached,
	"cached":   addr.Cached,
}

func init() {
	rootCmd.AddCommand(newAddrCmd())
}

func newAddrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addr <rel|abs|uncached|cached> <value>",
		Short: "Convert a region address",
		Long: `The addr command converts between the absolute addresses the
allocator returns, the base-relative offsets used in display lists, and the
uncached mirror used for uploads.

Example:
  regionctl addr rel 0x04088000
  regionctl addr abs 0x88000
  regionctl addr uncached 0x04000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddr(args)
		},
	}
	return cmd
}

func runAddr(args []string) error {
	conv, ok := addrModes[args[0]]
	if !ok {
		return fmt.Errorf("unknown mode %q (want rel, abs, uncached or cached)", args[0])
	}
	v, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[1], err)
	}

	in := uint32(v)
	out := conv(in)

	if jsonOut {
		return printJSON(map[string]string{
			"mode":   args[0],
			"input":  hexAddr(in),
			"output": hexAddr(out),
		})
	}
	if quiet {
		fmt.Println(hexAddr(out))
		return nil
	}
	printInfo("%s -> %s\n", hexAddr(in), hexAddr(out))
	return nil
}
