package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vramkit/internal/format"
)

// tracePath returns the path to a shared test trace.
func tracePath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("..", "..", "region", "trace", "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test trace not found: %s", path)
	}
	return path
}

// resetFlags restores every global flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet, jsonOut, noColor = false, false, false, true
	cfgFile, logDir = "", ""
	regionBase = format.DefaultBase
	regionSize = format.DefaultRegionSize
	regionBlockSize = format.DefaultBlockSize
	replayVerify, replayFill = false, false
	mapWidth = barWidth
	stressOps, stressSeed, stressMaxSize = 2000, 1, 16<<10
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return <-done, fnErr
}

// decodeJSON unmarshals output into v, failing the test on invalid JSON
func decodeJSON(t *testing.T, output string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// writeTrace writes doc to a temporary trace file and returns its path.
func writeTrace(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}
