package jobs

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/forgo/folio/internal/model"
)

// ObjectWalker enumerates the objects in a local media store
type ObjectWalker interface {
	Walk(ctx context.Context, fn func(key string, modTime time.Time) error) error
	Delete(ctx context.Context, key string) error
}

// KeyChecker reports whether a media record still references a stored object
type KeyChecker interface {
	StorageKeyInUse(ctx context.Context, kind model.StorageKind, key string) (bool, error)
}

// SweepResult summarises one sweep
type SweepResult struct {
	Scanned int
	Removed int
	Failed  int
}

// MediaSweeper removes uploaded files that no media record points at.
// Orphans appear when deleting a record succeeds but removing its bytes
// does not, or when the process dies between writing bytes and the record.
// Files younger than MinAge are skipped so in-flight uploads survive.
type MediaSweeper struct {
	store    ObjectWalker
	media    KeyChecker
	interval time.Duration
	minAge   time.Duration
	now      func() time.Time
	logger   *slog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// MediaSweeperConfig configures a MediaSweeper
type MediaSweeperConfig struct {
	Store    ObjectWalker
	Media    KeyChecker
	Interval time.Duration // default 24 hours
	MinAge   time.Duration // default 1 hour
	Logger   *slog.Logger
}

// NewMediaSweeper creates a new media sweeper job
func NewMediaSweeper(cfg MediaSweeperConfig) *MediaSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.MinAge <= 0 {
		cfg.MinAge = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &MediaSweeper{
		store:    cfg.Store,
		media:    cfg.Media,
		interval: cfg.Interval,
		minAge:   cfg.MinAge,
		now:      time.Now,
		logger:   cfg.Logger.With(slog.String("job", "media_sweeper")),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *MediaSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	s.logger.Info("media sweeper started", slog.Duration("interval", s.interval))
}

// Stop gracefully stops the sweep loop, waiting for a running sweep
func (s *MediaSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("media sweeper stopped")
}

// IsRunning returns whether the sweep loop is running
func (s *MediaSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *MediaSweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MediaSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Abort the sweep if Stop is called mid-walk
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("media sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("media sweep complete",
		slog.Int("scanned", result.Scanned),
		slog.Int("removed", result.Removed),
		slog.Int("failed", result.Failed),
	)
}

// RunOnce performs a single sweep. A failure on one object is counted and
// logged; only a failure to enumerate the store is returned.
func (s *MediaSweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	cutoff := s.now().Add(-s.minAge)

	err := s.store.Walk(ctx, func(key string, modTime time.Time) error {
		result.Scanned++
		if modTime.After(cutoff) {
			return nil
		}

		// Abandoned temp files never have a record
		if !strings.HasSuffix(key, ".part") {
			inUse, err := s.media.StorageKeyInUse(ctx, model.StorageLocal, key)
			if err != nil {
				s.logger.Warn("media sweep lookup failed", slog.String("key", key), slog.String("error", err.Error()))
				result.Failed++
				return nil
			}
			if inUse {
				return nil
			}
		}

		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("media sweep delete failed", slog.String("key", key), slog.String("error", err.Error()))
			result.Failed++
			return nil
		}
		s.logger.Debug("removed orphaned media object", slog.String("key", key))
		result.Removed++
		return nil
	})
	return result, err
}
