package rating

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/yourusername/tennis-edge/internal/models"
)

// ErrRebuildInProgress is returned when a second writer tries to rebuild
var ErrRebuildInProgress = errors.New("rating rebuild already in progress")

// Store publishes rating snapshots. Readers never block; a single writer at
// a time may rebuild, and a snapshot is only swapped in once it is complete.
type Store struct {
	current atomic.Pointer[Snapshot]
	writer  sync.Mutex
}

// NewStore creates a store with nothing published
func NewStore() *Store {
	return &Store{}
}

// Current returns the published snapshot
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, models.ErrNoSnapshot
	}
	return snap, nil
}

// Ready reports whether a snapshot has been published
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Publish swaps in snap
func (s *Store) Publish(snap *Snapshot) error {
	if snap == nil {
		return models.ErrNoSnapshot
	}
	s.current.Store(snap)
	return nil
}

// Rebuild runs build while holding the writer lock and publishes its result
// on success. It fails immediately with ErrRebuildInProgress if another
// rebuild holds the lock.
func (s *Store) Rebuild(build func() (*Snapshot, error)) (*Snapshot, error) {
	if !s.writer.TryLock() {
		return nil, ErrRebuildInProgress
	}
	defer s.writer.Unlock()

	snap, err := build()
	if err != nil {
		return nil, err
	}
	if err := s.Publish(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RebuildFrom replays matches with engine and publishes the result
func (s *Store) RebuildFrom(ctx context.Context, engine *Engine, matches []models.MatchResult) (*Snapshot, models.Diagnostics, error) {
	var diag models.Diagnostics
	snap, err := s.Rebuild(func() (*Snapshot, error) {
		built, d, err := engine.Build(ctx, matches)
		diag = d
		return built, err
	})
	return snap, diag, err
}
