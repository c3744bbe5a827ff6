package names

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Match scores
const (
	ScoreExact       = 1.0
	ScoreContainment = 0.8
	ScoreSurname     = 0.7

	// DefaultAcceptanceThreshold is the minimum score a resolution must reach
	DefaultAcceptanceThreshold = 0.8
)

// Candidate is a known name scored against a query
type Candidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Resolution is a successful lookup
type Resolution struct {
	Query     string  `json:"query"`
	Canonical string  `json:"canonical"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
}

// Index is a precomputed, immutable view of the known names
type Index struct {
	names   []string
	cleaned []string
}

// NewIndex builds an index over known. Names are sorted so that candidate
// ordering never depends on the caller's slice order.
func NewIndex(known []string) *Index {
	names := make([]string, len(known))
	copy(names, known)
	sort.Strings(names)

	idx := &Index{
		names:   names,
		cleaned: make([]string, len(names)),
	}
	for i, n := range names {
		idx.cleaned[i] = clean(n)
	}
	return idx
}

// Len returns the number of indexed names
func (idx *Index) Len() int {
	return len(idx.names)
}

// Resolver maps raw names onto indexed canonical names
type Resolver struct {
	threshold float64
}

// NewResolver creates a resolver; a non-positive threshold selects the default
func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultAcceptanceThreshold
	}
	return &Resolver{threshold: threshold}
}

// Threshold returns the acceptance threshold
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve finds the single best known name for raw. It fails with
// ErrPlayerUnresolved when nothing reaches the threshold and with
// ErrAmbiguousNameMatch when several names share the best qualifying score.
func (r *Resolver) Resolve(raw string, idx *Index) (Resolution, error) {
	canonical := Canonicalize(raw)
	if canonical == "" {
		return Resolution{}, fmt.Errorf("%w: empty name %q", models.ErrPlayerUnresolved, raw)
	}
	if idx == nil || idx.Len() == 0 {
		return Resolution{}, fmt.Errorf("%w: %q (no known players)", models.ErrPlayerUnresolved, raw)
	}

	candidates := r.Candidates(canonical, idx)
	if len(candidates) == 0 || candidates[0].Score < r.threshold {
		return Resolution{}, fmt.Errorf("%w: %q (canonical %q)", models.ErrPlayerUnresolved, raw, canonical)
	}

	best := candidates[0]
	tied := []string{best.Name}
	for _, c := range candidates[1:] {
		if c.Score != best.Score {
			break
		}
		tied = append(tied, c.Name)
	}
	if len(tied) > 1 {
		return Resolution{}, fmt.Errorf("%w: %q scores %.1f against %s",
			models.ErrAmbiguousNameMatch, raw, best.Score, strings.Join(tied, ", "))
	}

	return Resolution{Query: raw, Canonical: canonical, Name: best.Name, Score: best.Score}, nil
}

// Candidates returns every indexed name with a non-zero score against the
// canonical query, ordered by score descending then name ascending.
func (r *Resolver) Candidates(canonical string, idx *Index) []Candidate {
	query := clean(canonical)
	var out []Candidate
	for i, name := range idx.names {
		if s := score(query, idx.cleaned[i]); s > 0 {
			out = append(out, Candidate{Name: name, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Score compares two names after cleaning
func Score(a, b string) float64 {
	return score(clean(a), clean(b))
}

func score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return ScoreExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return ScoreContainment
	}
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) >= 2 && len(tb) >= 2 && surname(ta) == surname(tb) {
		return ScoreSurname
	}
	return 0
}

// surname drops a trailing initial so "martinez a" and "pedro martinez"
// compare on "martinez"
func surname(tokens []string) string {
	last := tokens[len(tokens)-1]
	if len([]rune(last)) == 1 {
		return strings.Join(tokens[:len(tokens)-1], " ")
	}
	return last
}

func clean(s string) string {
	s = strings.ToLower(FoldAccents(s))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
