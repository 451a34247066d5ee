package patterns

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func waitForPlaceholder(t *testing.T, tables <-chan *Table, want string) *Table {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case table := <-tables:
			if table.Strings().Placeholder == want {
				return table
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload with placeholder %q", want)
			return nil
		}
	}
}

func TestWatcher_Reload(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("placeholder = \"first\"\n"), 0600))

	core, logs := observer.New(zap.DebugLevel)
	tables := make(chan *Table, 16)
	w, err := NewWatcher(path, DefaultDefinition(), func(tbl *Table) { tables <- tbl }, zap.New(core))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("placeholder = \"second\"\n"), 0600))
	table := waitForPlaceholder(t, tables, "second")
	assert.Len(t, table.PhoneTemplate(), 9)

	// A broken file is logged and never reaches the callback.
	require.NoError(t, os.WriteFile(path, []byte("placeholder = \n"), 0600))
	assert.Eventually(t, func() bool {
		return logs.FilterMessageSnippet("keeping previous rules").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)

	w.Stop()
	<-w.Done()
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0600))

	var calls int
	w, err := NewWatcher(path, DefaultDefinition(), func(*Table) { calls++ }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0600))
	time.Sleep(100 * time.Millisecond)

	cancel()
	<-w.Done()
	assert.Zero(t, calls)
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	_, err := NewWatcher("rules.toml", DefaultDefinition(), nil, nil)
	assert.Error(t, err)
}
