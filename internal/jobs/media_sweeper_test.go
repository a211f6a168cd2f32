package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/storage"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeKeys struct {
	inUse map[string]bool
	err   error
}

func (f *fakeKeys) StorageKeyInUse(_ context.Context, kind model.StorageKind, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return kind == model.StorageLocal && f.inUse[key], nil
}

// writeObject stores a file under root and backdates it by age
func writeObject(t *testing.T, root, key string, age time.Duration) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(p, stamp, stamp))
}

func exists(root, key string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	return err == nil
}

func newTestSweeper(t *testing.T, keys *fakeKeys) (*MediaSweeper, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "/uploads")
	require.NoError(t, err)
	return NewMediaSweeper(MediaSweeperConfig{Store: store, Media: keys, MinAge: time.Hour}), root
}

// ============================================================================
// RunOnce Tests
// ============================================================================

func TestMediaSweeper_RemovesOnlyOldOrphans(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{inUse: map[string]bool{"2024/05/kept.png": true}}
	sweeper, root := newTestSweeper(t, keys)

	writeObject(t, root, "2024/05/kept.png", 48*time.Hour)
	writeObject(t, root, "2024/05/orphan.png", 48*time.Hour)
	writeObject(t, root, "2024/05/fresh.png", time.Minute)
	writeObject(t, root, "2024/05/stale.png.part", 48*time.Hour)

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Scanned: 4, Removed: 2}, result)
	assert.True(t, exists(root, "2024/05/kept.png"))
	assert.True(t, exists(root, "2024/05/fresh.png"), "young files belong to in-flight uploads")
	assert.False(t, exists(root, "2024/05/orphan.png"))
	assert.False(t, exists(root, "2024/05/stale.png.part"))
}

func TestMediaSweeper_LookupFailureKeepsFile(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{err: errors.New("database down")}
	sweeper, root := newTestSweeper(t, keys)
	writeObject(t, root, "2024/05/a.png", 48*time.Hour)

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Scanned: 1, Failed: 1}, result)
	assert.True(t, exists(root, "2024/05/a.png"))
}

func TestMediaSweeper_EmptyStore(t *testing.T) {
	t.Parallel()

	sweeper, _ := newTestSweeper(t, &fakeKeys{})
	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result)
}

func TestMediaSweeper_CancelledContext(t *testing.T) {
	t.Parallel()

	sweeper, root := newTestSweeper(t, &fakeKeys{})
	writeObject(t, root, "2024/05/a.png", 48*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sweeper.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, exists(root, "2024/05/a.png"))
}

// ============================================================================
// Lifecycle Tests
// ============================================================================

func TestMediaSweeper_StartStop(t *testing.T) {
	t.Parallel()

	sweeper, _ := newTestSweeper(t, &fakeKeys{})
	assert.False(t, sweeper.IsRunning())

	sweeper.Start()
	sweeper.Start()
	assert.True(t, sweeper.IsRunning())

	sweeper.Stop()
	sweeper.Stop()
	assert.False(t, sweeper.IsRunning())
}

func TestNewMediaSweeper_Defaults(t *testing.T) {
	t.Parallel()

	sweeper := NewMediaSweeper(MediaSweeperConfig{})
	assert.Equal(t, 24*time.Hour, sweeper.interval)
	assert.Equal(t, time.Hour, sweeper.minAge)
	assert.NotNil(t, sweeper.logger)
}
