package models

import "time"

// PurchaseRecord is one row of the purchase-history sheet, with the
// post-transaction balances computed from the pre-transaction numbers.
type PurchaseRecord struct {
	Timestamp   time.Time
	Name        string
	StaticID    string
	Handle      string
	ProductName string
	Price       int
	TotalPoints int
	SpentAfter  int
	ActualAfter int
}

// PurchaseResult is what a completed purchase reports back to the front end.
type PurchaseResult struct {
	Product    Product `json:"product"`
	Debited    int     `json:"debited"`
	NewBalance int     `json:"new_balance"`

	// Estimated is set when the post-purchase re-read failed and NewBalance
	// is the locally computed actual - price value.
	Estimated bool `json:"estimated,omitempty"`
}
