package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tennis-edge/internal/models"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"first last", "Carlos Alcaraz", "Alcaraz C."},
		{"multi word surname", "Felix Auger Aliassime", "Auger Aliassime F."},
		{"accents folded", "Stan Wawrinka", "Wawrinka S."},
		{"table accents", "Tomás Martín Etcheverry", "Martin Etcheverry T."},
		{"mark folding", "Novak Đoković", "Dokovic N."},
		{"already canonical", "Sinner J.", "Sinner J."},
		{"alias applied", "Alex De Minaur", "de Minaur A."},
		{"alias particle", "Botic Van De Zandschulp", "van de Zandschulp B."},
		{"single token", "Rafa", "Rafa"},
		{"extra whitespace", "  Jannik   Sinner  ", "Sinner J."},
		{"empty", "", ""},
		{"blank", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.input))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Carlos Alcaraz",
		"Alex De Minaur",
		"de Minaur A.",
		"Botic Van De Zandschulp",
		"Novak Đoković",
		"Ørjan Straße",
		"J. Sinner",
		"1abc def",
		".x y",
		"Rafa",
		"",
		"Juan Martín del Potro",
		"A B C D E",
		"Łukasz Kubot",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "input %q", in)
	}
}

func TestResolveExactAndContainment(t *testing.T) {
	idx := NewIndex([]string{"Alcaraz C.", "Sinner J.", "de Minaur A.", "Auger Aliassime F."})
	r := NewResolver(0)

	res, err := r.Resolve("Carlos Alcaraz", idx)
	require.NoError(t, err)
	assert.Equal(t, "Alcaraz C.", res.Name)
	assert.Equal(t, ScoreExact, res.Score)

	res, err = r.Resolve("Alex de Minaur", idx)
	require.NoError(t, err)
	assert.Equal(t, "de Minaur A.", res.Name)

	res, err = r.Resolve("Aliassime", idx)
	require.NoError(t, err)
	assert.Equal(t, "Auger Aliassime F.", res.Name)
	assert.Equal(t, ScoreContainment, res.Score)
}

func TestResolveUnresolved(t *testing.T) {
	idx := NewIndex([]string{"Alcaraz C.", "Sinner J."})
	r := NewResolver(DefaultAcceptanceThreshold)

	_, err := r.Resolve("Daniil Medvedev", idx)
	assert.ErrorIs(t, err, models.ErrPlayerUnresolved)

	_, err = r.Resolve("   ", idx)
	assert.ErrorIs(t, err, models.ErrPlayerUnresolved)

	_, err = r.Resolve("Carlos Alcaraz", NewIndex(nil))
	assert.ErrorIs(t, err, models.ErrPlayerUnresolved)
}

func TestResolveSurnameOnlyIsBelowThreshold(t *testing.T) {
	idx := NewIndex([]string{"Zverev A."})

	_, err := NewResolver(0).Resolve("Mischa Zverev", idx)
	assert.ErrorIs(t, err, models.ErrPlayerUnresolved)

	res, err := NewResolver(0.7).Resolve("Mischa Zverev", idx)
	require.NoError(t, err)
	assert.Equal(t, ScoreSurname, res.Score)
}

func TestResolveAmbiguousTie(t *testing.T) {
	idx := NewIndex([]string{"Martinez A.", "Martinez J."})
	r := NewResolver(0)

	// a bare surname scores equally against both players
	_, err := r.Resolve("Martinez", idx)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAmbiguousNameMatch)
	assert.Contains(t, err.Error(), "Martinez A.")
	assert.Contains(t, err.Error(), "Martinez J.")

	// "A Martinez" canonicalises to "Martinez A.", an exact 1.0 match, so it
	// resolves instead of tying
	res, err := r.Resolve("A Martinez", idx)
	require.NoError(t, err)
	assert.Equal(t, "Martinez A.", res.Name)
}

func TestCandidatesTotalOrder(t *testing.T) {
	a := NewIndex([]string{"Martinez J.", "Martinez A.", "Martinez P."})
	b := NewIndex([]string{"Martinez P.", "Martinez A.", "Martinez J."})
	r := NewResolver(0)

	assert.Equal(t, r.Candidates("Martinez A.", a), r.Candidates("Martinez A.", b))
	c := r.Candidates("Martinez A.", a)
	require.Len(t, c, 3)
	assert.Equal(t, Candidate{Name: "Martinez A.", Score: ScoreExact}, c[0])
	assert.Equal(t, "Martinez J.", c[1].Name)
	assert.Equal(t, "Martinez P.", c[2].Name)
}

func TestScore(t *testing.T) {
	assert.Equal(t, ScoreExact, Score("Sinner J.", "sinner j"))
	assert.Equal(t, ScoreContainment, Score("Sinner", "Sinner J."))
	assert.Equal(t, ScoreSurname, Score("Sinner J.", "Sinner M."))
	assert.Equal(t, 0.0, Score("Sinner J.", "Alcaraz C."))
	assert.Equal(t, 0.0, Score("", "Alcaraz C."))
}
