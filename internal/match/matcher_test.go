package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OdooGateway/internal/domain"
)

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultThresholds())
}

func TestScore_EmptyInputs(t *testing.T) {
	m := newTestMatcher()

	assert.Equal(t, 0.0, m.Score("", "cafe"))
	assert.Equal(t, 0.0, m.Score("cafe", ""))
	assert.Equal(t, 0.0, m.Score("", ""))
	assert.Equal(t, 0.0, m.Score("   ", "cafe"))
}

func TestScore_ExactMatch(t *testing.T) {
	m := newTestMatcher()

	assert.Equal(t, 1.0, m.Score("cafe noisette", "cafe noisette"))
	// Case differences disappear before scoring.
	assert.Equal(t, 1.0, m.Score("Cafe Noisette", "cafe noisette"))
}

func TestScore_SubstringBonus(t *testing.T) {
	m := newTestMatcher()

	with := m.Score("noisette", "cafe noisette")
	without := m.Score("noisette", "cafe noisettx")
	assert.Greater(t, with, without)
}

func TestScore_Bounds(t *testing.T) {
	m := newTestMatcher()

	pairs := [][2]string{
		{"noisette", "cafe noisette"},
		{"a", "completely different long product name"},
		{"moka", "moka"},
		{"xyz", "abc"},
	}
	for _, p := range pairs {
		s := m.Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, s, 1.0, "%q vs %q", p[0], p[1])
	}
}

func TestScoreCandidate_MaxOverFields(t *testing.T) {
	m := newTestMatcher()

	c := domain.Candidate{
		Name:        "Something Unrelated",
		DefaultCode: "MOKA-01",
		Barcode:     "",
	}

	// The code field matches far better than the name; the candidate score
	// must be the best field score.
	got := m.ScoreCandidate("moka-01", c)
	assert.Equal(t, m.Score("moka-01", c.DefaultCode), got)
	assert.Greater(t, got, m.Score("moka-01", c.Name))
}

func TestRank_DescendingAndStable(t *testing.T) {
	m := newTestMatcher()

	candidates := []domain.Candidate{
		{ID: 1, Name: "Thé Vert"},
		{ID: 2, Name: "Cafe Noisette"},
		{ID: 3, Name: "Cafe Noir"},
	}

	ranked := m.Rank("cafe noisette", candidates)
	require.Len(t, ranked, 3)
	assert.Equal(t, 2, ranked[0].ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestClassify_Empty(t *testing.T) {
	m := newTestMatcher()

	res := m.Classify(nil)
	assert.False(t, res.Confident)
	assert.Nil(t, res.Selected)
	assert.Empty(t, res.Candidates)
}

func TestClassify_ConfidentWithMargin(t *testing.T) {
	m := newTestMatcher()

	ranked := []domain.ScoredCandidate{
		{Candidate: domain.Candidate{ID: 1}, Score: 0.9},
		{Candidate: domain.Candidate{ID: 2}, Score: 0.5},
	}

	res := m.Classify(ranked)
	require.True(t, res.Confident)
	require.NotNil(t, res.Selected)
	assert.Equal(t, 1, res.Selected.ID)
}

func TestClassify_AmbiguousNarrowMargin(t *testing.T) {
	m := newTestMatcher()

	// Both above the score floor but within the margin: must not auto-select.
	ranked := []domain.ScoredCandidate{
		{Candidate: domain.Candidate{ID: 1}, Score: 0.75},
		{Candidate: domain.Candidate{ID: 2}, Score: 0.70},
	}

	res := m.Classify(ranked)
	assert.False(t, res.Confident)
	assert.Nil(t, res.Selected)
	assert.Len(t, res.Candidates, 2)
}

func TestClassify_SingleCandidateAtThreshold(t *testing.T) {
	m := newTestMatcher()

	res := m.Classify([]domain.ScoredCandidate{
		{Candidate: domain.Candidate{ID: 1}, Score: 0.72},
	})
	assert.True(t, res.Confident)

	res = m.Classify([]domain.ScoredCandidate{
		{Candidate: domain.Candidate{ID: 1}, Score: 0.71},
	})
	assert.False(t, res.Confident)
	assert.Len(t, res.Candidates, 1)
}

func TestClassify_TruncatesToMaxSuggestions(t *testing.T) {
	m := newTestMatcher()

	ranked := make([]domain.ScoredCandidate, 8)
	for i := range ranked {
		ranked[i] = domain.ScoredCandidate{
			Candidate: domain.Candidate{ID: i + 1},
			Score:     0.5,
		}
	}

	res := m.Classify(ranked)
	assert.False(t, res.Confident)
	assert.Len(t, res.Candidates, DefaultThresholds().MaxSuggestions)
	assert.Equal(t, 1, res.Candidates[0].ID)
}

func TestTokenOverlap(t *testing.T) {
	assert.Equal(t, 2, TokenOverlap("cafe noisette", "Café Noisette Bio"))
	assert.Equal(t, 1, TokenOverlap("cafe vanille", "Cafe Noisette"))
	assert.Equal(t, 0, TokenOverlap("moka", "Thé Vert"))
}
