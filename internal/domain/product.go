package domain

// Candidate is a product template returned by Odoo for one resolution
// request. Optional text fields come back as false from Odoo when unset and
// are normalized to empty strings during decoding.
type Candidate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DefaultCode string `json:"default_code,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
}

// ScoredCandidate is a Candidate with its similarity score in [0, 1].
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
}

// Resolution is the outcome of classifying a ranked candidate list: either a
// single confidently selected candidate, or a short list the caller must
// disambiguate.
type Resolution struct {
	Confident bool
	// Selected is set only when Confident.
	Selected *ScoredCandidate
	// Candidates holds the top suggestions when not Confident.
	Candidates []ScoredCandidate
}

// RankedTemplate is a template ranked by token-overlap count for the
// tokenized template search. Rank orders results but is not exposed on the
// wire.
type RankedTemplate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"-"`
}

// StockRecord is a quantity-at-location entry for one product variant,
// sourced live from stock.quant and never cached.
type StockRecord struct {
	Location string  `json:"location"`
	Quantity float64 `json:"quantity"`
}

// StockQueryResult is the combined outcome of a free-text stock query:
// resolution plus, when confident, the variant's stock records.
type StockQueryResult struct {
	Query             string
	NeedsConfirmation bool
	Selected          *ScoredCandidate
	Stock             []StockRecord
	TopCandidates     []ScoredCandidate
	Error             string
}
