package rating

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tennis-edge/internal/models"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func match(winner, loser string, surface models.Surface, day int) models.MatchResult {
	return models.MatchResult{
		Winner:     winner,
		Loser:      loser,
		Surface:    surface,
		Date:       day0.AddDate(0, 0, day),
		Tournament: "Test Open",
	}
}

func sampleHistory() []models.MatchResult {
	return []models.MatchResult{
		match("Alcaraz C.", "Sinner J.", models.SurfaceClay, 0),
		match("Sinner J.", "Medvedev D.", models.SurfaceHard, 1),
		match("Carlos Alcaraz", "Daniil Medvedev", models.SurfaceGrass, 2),
		match("Medvedev D.", "Zverev A.", models.SurfaceHard, 2),
		match("Zverev A.", "Alcaraz C.", models.SurfaceClay, 5),
		match("Jannik Sinner", "Alexander Zverev", models.SurfaceHard, 9),
	}
}

func TestKFactorTiers(t *testing.T) {
	k := DefaultKFactor()

	tests := []struct {
		name    string
		matches int
		rating  float64
		want    float64
	}{
		{"new player ignores rating", 10, 2100, 48},
		{"new player boundary", 29, 1500, 48},
		{"developing at 30", 30, 1500, 38.4},
		{"developing ignores rating", 99, 2100, 38.4},
		{"elite", 100, 2100, 25.6},
		{"strong", 150, 1900, 28.8},
		{"exactly elite is strong", 150, 2000, 28.8},
		{"exactly strong is base", 150, 1800, 32},
		{"base", 500, 1500, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, k.For(tt.matches, tt.rating), 1e-9)
		})
	}

	assert.Equal(t, 16.0, Fixed(16).For(0, 2500))
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-12)
	assert.InDelta(t, 0.7597, ExpectedScore(1700, 1500), 1e-4)
	assert.InDelta(t, 1.0, ExpectedScore(1700, 1500)+ExpectedScore(1500, 1700), 1e-12)
}

func TestApplySingleMatch(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	b := NewBuilder(DefaultBaseRating, models.DefaultSurfaceWeights())

	require.NoError(t, e.Apply(b, match("Carlos Alcaraz", "Jannik Sinner", models.SurfaceClay, 0)))

	w, ok := b.Lookup("Alcaraz C.")
	require.True(t, ok)
	l, ok := b.Lookup("Sinner J.")
	require.True(t, ok)

	assert.InDelta(t, 1524.0, w.EloClay, 1e-9)
	assert.InDelta(t, 1476.0, l.EloClay, 1e-9)
	assert.Equal(t, 1500.0, w.EloHard)
	assert.Equal(t, 1500.0, w.EloGrass)
	assert.InDelta(t, 1507.2, w.EloOverall, 1e-9)
	assert.Equal(t, 1, w.MatchesPlayed)
	assert.Equal(t, day0, w.LastUpdated)
}

func TestApplyUsesEachPlayersOwnK(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	b := NewBuilder(DefaultBaseRating, models.DefaultSurfaceWeights())

	veteran := b.Player("Veteran V.", day0)
	veteran.MatchesPlayed = 200

	require.NoError(t, e.Apply(b, match("Veteran V.", "Rookie R.", models.SurfaceHard, 0)))

	v, _ := b.Lookup("Veteran V.")
	r, _ := b.Lookup("Rookie R.")
	assert.InDelta(t, 1516.0, v.EloHard, 1e-9)
	assert.InDelta(t, 1476.0, r.EloHard, 1e-9)
}

func TestApplyRejectsInvalidRecords(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	b := NewBuilder(DefaultBaseRating, models.DefaultSurfaceWeights())

	tests := []struct {
		name string
		m    models.MatchResult
		want error
	}{
		{"same player", match("Sinner J.", "Jannik Sinner", models.SurfaceHard, 0), models.ErrInvalidRecord},
		{"blank winner", match("  ", "Sinner J.", models.SurfaceHard, 0), models.ErrInvalidRecord},
		{"bad surface", match("Alcaraz C.", "Sinner J.", models.Surface("Carpet"), 0), models.ErrInvalidSurface},
		{"no date", models.MatchResult{Winner: "Alcaraz C.", Loser: "Sinner J.", Surface: models.SurfaceHard}, models.ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.Apply(b, tt.m), tt.want)
		})
	}
	assert.Equal(t, 0, b.Len())
}

func TestBuildIsDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	first, _, err := e.Build(context.Background(), sampleHistory())
	require.NoError(t, err)
	second, _, err := e.Build(context.Background(), sampleHistory())
	require.NoError(t, err)

	assert.Equal(t, first.Ratings(), second.Ratings())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 6, first.MatchesApplied())
	assert.Equal(t, day0.AddDate(0, 0, 9), first.LastMatchDate())
	assert.Equal(t, []string{"Alcaraz C.", "Medvedev D.", "Sinner J.", "Zverev A."}, first.Names())
}

func TestBuildOverallIsConsistent(t *testing.T) {
	cfg := DefaultConfig()
	snap, _, err := NewEngine(cfg, nil).Build(context.Background(), sampleHistory())
	require.NoError(t, err)

	for _, r := range snap.Ratings() {
		want := 0.5*r.EloHard + 0.3*r.EloClay + 0.2*r.EloGrass
		assert.LessOrEqual(t, math.Abs(r.EloOverall-want), 1e-9, r.Player)
	}
}

func TestBuildNewPlayersStartAtBase(t *testing.T) {
	snap, _, err := NewEngine(DefaultConfig(), nil).Build(context.Background(), []models.MatchResult{
		match("Alcaraz C.", "Sinner J.", models.SurfaceGrass, 0),
	})
	require.NoError(t, err)

	r, ok := snap.Get("Sinner J.")
	require.True(t, ok)
	assert.Equal(t, 1500.0, r.EloHard)
	assert.Equal(t, 1500.0, r.EloClay)
	assert.Less(t, r.EloGrass, 1500.0)

	_, ok = snap.Get("Nobody N.")
	assert.False(t, ok)
}

func TestMonotonicDominance(t *testing.T) {
	configs := map[string]KFactor{
		"fixed 10": Fixed(10),
		"fixed 32": Fixed(32),
		"adaptive": DefaultKFactor(),
	}

	for name, k := range configs {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.KFactor = k
			e := NewEngine(cfg, nil)
			b := NewBuilder(cfg.BaseRating, cfg.Weights)

			prevA, prevB := cfg.BaseRating, cfg.BaseRating
			for i := 0; i < 8; i++ {
				require.NoError(t, e.Apply(b, match("Player A.", "Player B.", models.SurfaceClay, i)))
				a, _ := b.Lookup("Player A.")
				bb, _ := b.Lookup("Player B.")
				assert.Greater(t, a.EloClay, prevA, "win %d", i+1)
				assert.Less(t, bb.EloClay, prevB, "loss %d", i+1)
				assert.Equal(t, cfg.BaseRating, a.EloHard)
				assert.Equal(t, cfg.BaseRating, bb.EloGrass)
				prevA, prevB = a.EloClay, bb.EloClay
			}
		})
	}
}

func TestBuildNonChronological(t *testing.T) {
	history := []models.MatchResult{
		match("Alcaraz C.", "Sinner J.", models.SurfaceClay, 3),
		match("Sinner J.", "Alcaraz C.", models.SurfaceHard, 1),
	}

	_, _, err := NewEngine(DefaultConfig(), nil).Build(context.Background(), history)
	assert.ErrorIs(t, err, models.ErrNonChronologicalInput)

	cfg := DefaultConfig()
	cfg.SortUnordered = true
	sorted, _, err := NewEngine(cfg, nil).Build(context.Background(), history)
	require.NoError(t, err)

	inOrder, _, err := NewEngine(DefaultConfig(), nil).Build(context.Background(), []models.MatchResult{history[1], history[0]})
	require.NoError(t, err)
	assert.Equal(t, inOrder.Ratings(), sorted.Ratings())
	assert.Equal(t, day0.AddDate(0, 0, 3), history[0].Date, "input slice must not be reordered")
}

func TestBuildEmptyHistory(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	_, _, err := e.Build(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)

	_, diag, err := e.Build(context.Background(), []models.MatchResult{
		match("Sinner J.", "Sinner J.", models.SurfaceHard, 0),
	})
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)
	assert.Equal(t, 1, diag.Skipped)
}

func TestBuildCollectsDiagnostics(t *testing.T) {
	history := sampleHistory()
	history = append(history, match("Zverev A.", "Zverev A.", models.SurfaceHard, 10))
	history = append(history, match("Zverev A.", "Sinner J.", models.Surface("Carpet"), 11))

	snap, diag, err := NewEngine(DefaultConfig(), nil).Build(context.Background(), history)
	require.NoError(t, err)

	assert.Equal(t, 6, snap.MatchesApplied())
	assert.Equal(t, 8, diag.Processed)
	assert.Equal(t, 6, diag.Succeeded)
	assert.Equal(t, 2, diag.Skipped)
	assert.Equal(t, 1, diag.SkipsByReason["invalid_record"])
	assert.Equal(t, 1, diag.SkipsByReason["invalid_surface"])
	require.Len(t, diag.Samples, 2)
	assert.Equal(t, 6, diag.Samples[0].Index)
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewEngine(DefaultConfig(), nil).Build(ctx, sampleHistory())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotTop(t *testing.T) {
	snap := NewSnapshot([]models.PlayerRating{
		{Player: "B", EloClay: 1600, EloOverall: 1500},
		{Player: "A", EloClay: 1600, EloOverall: 1400},
		{Player: "C", EloClay: 1700, EloOverall: 1450},
	}, day0)

	top := snap.Top(models.SurfaceClay, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].Player)
	assert.Equal(t, "A", top[1].Player)

	overall := snap.Top("", 0)
	require.Len(t, overall, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{overall[0].Player, overall[1].Player, overall[2].Player})
}

func TestStoreRebuildFailureKeepsSnapshot(t *testing.T) {
	store := NewStore()
	e := NewEngine(DefaultConfig(), nil)

	_, err := store.Current()
	assert.ErrorIs(t, err, models.ErrNoSnapshot)
	assert.False(t, store.Ready())

	first, _, err := store.RebuildFrom(context.Background(), e, sampleHistory())
	require.NoError(t, err)
	assert.True(t, store.Ready())

	bad := []models.MatchResult{
		match("Alcaraz C.", "Sinner J.", models.SurfaceClay, 3),
		match("Sinner J.", "Alcaraz C.", models.SurfaceHard, 1),
	}
	_, _, err = store.RebuildFrom(context.Background(), e, bad)
	assert.ErrorIs(t, err, models.ErrNonChronologicalInput)

	_, _, err = store.RebuildFrom(context.Background(), e, nil)
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID(), current.ID())
}

func TestStoreRejectsConcurrentRebuild(t *testing.T) {
	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := store.Rebuild(func() (*Snapshot, error) {
			close(started)
			<-release
			return NewSnapshot(nil, day0), nil
		})
		done <- err
	}()

	<-started
	_, err := store.Rebuild(func() (*Snapshot, error) {
		t.Error("second rebuild must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrRebuildInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, store.Ready())
}

func TestStoreReadersSeeWholeSnapshots(t *testing.T) {
	store := NewStore()
	e := NewEngine(DefaultConfig(), nil)
	_, _, err := store.RebuildFrom(context.Background(), e, sampleHistory())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap, err := store.Current()
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, 4, snap.Len())
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, _, _ = store.RebuildFrom(context.Background(), e, sampleHistory())
	}
	wg.Wait()
}
