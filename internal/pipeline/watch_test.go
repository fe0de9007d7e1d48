package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrgen/internal/project"
)

func TestWatcherRegeneratesChangedUnit(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	a := save(t, in, "a.json", withEnum("alpha"))
	b := save(t, in, "b.json", withEnum("beta"))

	reports := make(chan *Report, 8)
	w, err := NewWatcher([]string{a, b}, Options{OutDir: out}, func(r *Report) { reports <- r })
	require.NoError(t, err)
	w.SetDebounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	next := func() *Report {
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("no report from watcher")
			return nil
		}
	}

	initial := next()
	require.Len(t, initial.Units, 2)

	data, err := project.Encode(hiBye(), project.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(b, data, 0o600))

	r := next()
	require.Len(t, r.Units, 1)
	assert.Equal(t, b, r.Units[0].Path)
	assert.FileExists(t, filepath.Join(out, "rust_example.h"))

	// unrelated files in the watched directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o600))
	select {
	case r := <-reports:
		t.Fatalf("unexpected run for %v", r.Units)
	case <-time.After(400 * time.Millisecond):
	}
}
