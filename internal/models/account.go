package models

import "strings"

// NormalizeHandle produces the canonical lookup key for a chat handle:
// surrounding whitespace trimmed, all leading "@" stripped, lowercased.
// Applying it twice yields the same value.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(handle), "@"))
}

// UserAccount is one row of the balances sheet. Row and SpentCol are the
// 1-based location of the record and of its spent-points cell, captured at
// read time so a debit can update the cell in place.
type UserAccount struct {
	Row      int    `json:"-"`
	SpentCol int    `json:"-"`
	Name     string `json:"name"`
	StaticID string `json:"static_id"`
	Handle   string `json:"handle"`

	// ActualPoints is stored independently in the sheet and is authoritative
	// for purchase eligibility; it is not derived from Total - Spent here.
	TotalPoints  int `json:"total_points"`
	SpentPoints  int `json:"spent_points"`
	ActualPoints int `json:"actual_points"`
}
