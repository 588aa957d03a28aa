package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: false, Output: &out}))
	Info("hello")
	require.Zero(t, out.Len())
}

func TestInitWritesTextAtLevel(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Output: &out, Level: slog.LevelWarn}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Info("dropped")
	Warn("kept", "blocks", 3)

	got := out.String()
	require.NotContains(t, got, "dropped")
	require.Contains(t, got, "kept")
	require.Contains(t, got, "blocks=3")
}

func TestInitJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Output: &out, JSON: true}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Error("boom", "addr", "0x4000000")
	require.True(t, strings.HasPrefix(out.String(), "{"), "expected JSON record, got %q", out.String())
	require.Contains(t, out.String(), `"msg":"boom"`)
}

func TestInitLogDirRemovesExpiredLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, logPrefix+time.Now().AddDate(0, 0, -(retentionDays+5)).Format("2006-01-02")+logSuffix)
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(unrelated, []byte("x"), 0o600))

	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	t.Cleanup(func() { _ = Init(Options{}) })
	Info("written")

	_, err := os.Stat(old)
	require.True(t, os.IsNotExist(err), "expired log should be removed")
	_, err = os.Stat(unrelated)
	require.NoError(t, err)

	today := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(today)
	require.NoError(t, err)
	require.Contains(t, string(data), "written")
}
