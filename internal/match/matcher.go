package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/utafrali/OdooGateway/internal/domain"
)

// Thresholds holds the tunable matching constants. They are load-bearing:
// changing them changes which queries auto-select versus ask for
// disambiguation.
type Thresholds struct {
	// MinScore is the minimum top score required to auto-select.
	MinScore float64
	// MinMargin is the minimum score gap over the runner-up required to
	// auto-select when more than one candidate exists.
	MinMargin float64
	// SubstringBonus is added to the similarity ratio when the query is a
	// literal substring of the candidate text.
	SubstringBonus float64
	// MaxSuggestions caps the candidate list returned on ambiguity.
	MaxSuggestions int
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinScore:       0.72,
		MinMargin:      0.10,
		SubstringBonus: 0.15,
		MaxSuggestions: 5,
	}
}

// Matcher scores candidates against a query and classifies ranked results as
// confident or ambiguous. Stateless after construction; safe for concurrent
// use.
type Matcher struct {
	t Thresholds
}

// NewMatcher creates a matcher with the given thresholds.
func NewMatcher(t Thresholds) *Matcher {
	if t.MaxSuggestions <= 0 {
		t.MaxSuggestions = DefaultThresholds().MaxSuggestions
	}
	return &Matcher{t: t}
}

// Score computes a similarity score in [0, 1] between a query and a single
// candidate text: a normalized edit-distance ratio plus a flat bonus when the
// query appears verbatim inside the text, clamped to 1.0. Empty input on
// either side scores 0.
func (m *Matcher) Score(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(text))
	if q == "" || t == "" {
		return 0.0
	}

	maxLen := utf8.RuneCountInString(q)
	if n := utf8.RuneCountInString(t); n > maxLen {
		maxLen = n
	}

	dist := levenshtein.ComputeDistance(q, t)
	score := 1.0 - float64(dist)/float64(maxLen)

	if strings.Contains(t, q) {
		score += m.t.SubstringBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// ScoreCandidate scores a candidate as the maximum of its per-field scores:
// a candidate is as good as its best-matching field.
func (m *Matcher) ScoreCandidate(query string, c domain.Candidate) float64 {
	best := m.Score(query, c.Name)
	if s := m.Score(query, c.DefaultCode); s > best {
		best = s
	}
	if s := m.Score(query, c.Barcode); s > best {
		best = s
	}
	return best
}

// Rank scores all candidates and sorts them by descending score. The sort is
// stable so ties keep Odoo's original return order.
func (m *Matcher) Rank(query string, candidates []domain.Candidate) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, domain.ScoredCandidate{
			Candidate: c,
			Score:     m.ScoreCandidate(query, c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Classify decides whether the top of an already-ranked candidate list can be
// auto-selected. The top candidate wins iff its score meets MinScore and it
// is either alone or ahead of the runner-up by at least MinMargin; otherwise
// the caller must disambiguate among the top MaxSuggestions candidates.
func (m *Matcher) Classify(ranked []domain.ScoredCandidate) domain.Resolution {
	if len(ranked) == 0 {
		return domain.Resolution{}
	}

	best := ranked[0].Score
	second := 0.0
	if len(ranked) > 1 {
		second = ranked[1].Score
	}

	if best >= m.t.MinScore && (len(ranked) == 1 || best-second >= m.t.MinMargin) {
		selected := ranked[0]
		return domain.Resolution{Confident: true, Selected: &selected}
	}

	top := ranked
	if len(top) > m.t.MaxSuggestions {
		top = top[:m.t.MaxSuggestions]
	}
	return domain.Resolution{Candidates: top}
}

// TokenOverlap counts how many query tokens appear as substrings of the
// candidate name, both sides normalized. Used as an integer rank for the
// tokenized template search.
func TokenOverlap(query, name string) int {
	qn := Normalize(query)
	nn := Normalize(name)

	count := 0
	for _, tok := range strings.Split(qn, " ") {
		if tok != "" && strings.Contains(nn, tok) {
			count++
		}
	}
	return count
}
