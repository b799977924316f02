package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controls.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orbit:\n  rotate_speed: 1\n"), 0o644))

	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("orbit:\n  rotate_speed: 3\n"), 0o644))

	select {
	case s := <-w.Updates:
		assert.Equal(t, 3.0, s.Orbit.RotateSpeed)
	case err := <-w.Errors:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcher_ReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controls.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("orbit:\n  damping_factor: -1\n"), 0o644))

	select {
	case err := <-w.Errors:
		assert.ErrorIs(t, err, ErrInvalid)
	case <-w.Updates:
		t.Fatal("invalid settings delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("no error delivered")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controls.yaml")

	w, err := Watch(path, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Updates
	assert.False(t, open)
	_, open = <-w.Errors
	assert.False(t, open)
}
