package model

import "time"

// ShoppingItem is a single entry on the shopping list. Timestamps are
// epoch milliseconds so the persisted JSON stays compatible with records
// written by earlier releases of the app.
type ShoppingItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`

	// CompletedAtTimestamp is set exactly when the item is complete.
	CompletedAtTimestamp *int64 `json:"completedAtTimestamp,omitempty"`

	// LastUpdatedTimestamp is refreshed on create and toggle, not on delete.
	LastUpdatedTimestamp int64 `json:"lastUpdatedTimestamp"`
}

// Completed reports whether the item has been marked complete.
func (i ShoppingItem) Completed() bool {
	return i.CompletedAtTimestamp != nil
}

// NowMillis returns the current time as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
