package rating

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tennis-edge/internal/models"
)

// Snapshot is an immutable, published set of player ratings. All accessors
// return copies, so a snapshot can be shared freely between goroutines.
type Snapshot struct {
	id             uuid.UUID
	publishedAt    time.Time
	matchesApplied int
	lastMatchDate  time.Time
	ratings        map[string]models.PlayerRating
	names          []string
}

// NewSnapshot builds a snapshot from previously exported rows, e.g. when
// warm-starting from a repository.
func NewSnapshot(rows []models.PlayerRating, publishedAt time.Time) *Snapshot {
	s := &Snapshot{
		id:          uuid.New(),
		publishedAt: publishedAt,
		ratings:     make(map[string]models.PlayerRating, len(rows)),
	}
	for _, r := range rows {
		s.ratings[r.Player] = r
		if r.LastUpdated.After(s.lastMatchDate) {
			s.lastMatchDate = r.LastUpdated
		}
	}
	s.names = sortedKeys(s.ratings)
	return s
}

// WithID returns a copy of s carrying id
func (s *Snapshot) WithID(id uuid.UUID) *Snapshot {
	c := *s
	c.id = id
	return &c
}

func (s *Snapshot) ID() uuid.UUID            { return s.id }
func (s *Snapshot) PublishedAt() time.Time   { return s.publishedAt }
func (s *Snapshot) MatchesApplied() int      { return s.matchesApplied }
func (s *Snapshot) LastMatchDate() time.Time { return s.lastMatchDate }
func (s *Snapshot) Len() int                 { return len(s.names) }

// Get returns the rating of a canonical player name
func (s *Snapshot) Get(player string) (models.PlayerRating, bool) {
	r, ok := s.ratings[player]
	return r, ok
}

// Names returns every rated player, sorted
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Ratings returns every rating sorted by player name
func (s *Snapshot) Ratings() []models.PlayerRating {
	out := make([]models.PlayerRating, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.ratings[n])
	}
	return out
}

// Top returns up to limit players ordered by their rating on surface, highest
// first, ties broken by name. An empty surface ranks by overall rating.
func (s *Snapshot) Top(surface models.Surface, limit int) []models.PlayerRating {
	rows := s.Ratings()
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].SurfaceRating(surface), rows[j].SurfaceRating(surface)
		if ri != rj {
			return ri > rj
		}
		return rows[i].Player < rows[j].Player
	})
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Builder is the mutable working set of a single rebuild. It is not safe for
// concurrent use and is discarded once frozen.
type Builder struct {
	base           float64
	weights        models.SurfaceWeights
	players        map[string]*models.PlayerRating
	matchesApplied int
	lastMatchDate  time.Time
}

// NewBuilder creates an empty working set
func NewBuilder(base float64, weights models.SurfaceWeights) *Builder {
	return &Builder{
		base:    base,
		weights: weights,
		players: make(map[string]*models.PlayerRating),
	}
}

// Player returns the working record for name, creating it at the base rating
func (b *Builder) Player(name string, at time.Time) *models.PlayerRating {
	p, ok := b.players[name]
	if !ok {
		r := models.NewPlayerRating(name, b.base, b.weights, at)
		p = &r
		b.players[name] = p
	}
	return p
}

// Lookup returns a copy of the working record for name
func (b *Builder) Lookup(name string) (models.PlayerRating, bool) {
	p, ok := b.players[name]
	if !ok {
		return models.PlayerRating{}, false
	}
	return *p, true
}

// Len returns the number of players in the working set
func (b *Builder) Len() int {
	return len(b.players)
}

func (b *Builder) markApplied(date time.Time) {
	b.matchesApplied++
	if date.After(b.lastMatchDate) {
		b.lastMatchDate = date
	}
}

// Freeze copies the working set into a new immutable snapshot
func (b *Builder) Freeze(publishedAt time.Time) *Snapshot {
	s := &Snapshot{
		id:             uuid.New(),
		publishedAt:    publishedAt,
		matchesApplied: b.matchesApplied,
		lastMatchDate:  b.lastMatchDate,
		ratings:        make(map[string]models.PlayerRating, len(b.players)),
	}
	for name, p := range b.players {
		s.ratings[name] = *p
	}
	s.names = sortedKeys(s.ratings)
	return s
}

func sortedKeys(m map[string]models.PlayerRating) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
