// README: Top-issues summary types.
package issues

import "errors"

// ErrMalformedSummary is returned when a generated summary cannot be decoded.
var ErrMalformedSummary = errors.New("malformed issue summary")

// Summary is one category of related incidents.
type Summary struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Status      string `json:"status"`
	// ID is the most recent incident in the category.
	ID string `json:"id"`
}

// Report is the summary for one account.
type Report struct {
	AccountID string    `json:"accountId"`
	Issues    []Summary `json:"issues"`
	// Generated is false when the deterministic grouping was used.
	Generated bool `json:"generated"`
}
