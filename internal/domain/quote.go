package domain

// Quote is one version of a market quote. Quotes are superseded by newer
// versions but never closed, so the type has no terminal state.
type Quote struct {
	VersionRow
	Symbol string  `json:"symbol" db:"symbol"`
	Bid    float64 `json:"bid" db:"bid"`
	Ask    float64 `json:"ask" db:"ask"`
	Source string  `json:"source" db:"source"`
}

// Mid returns the quote midpoint.
func (q *Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}
