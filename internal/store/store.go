package store

import (
	"context"
	"encoding/json"

	"github.com/hudo-ng/ShoppingList/internal/model"
)

// Storage keys. The shopping list is persisted as one JSON array and the
// countdown record as one JSON object; there is no namespacing beyond
// these two keys. The values match the keys used by earlier releases, so
// an existing database keeps working.
const (
	KeyShoppingList = "shopping-List"
	KeyCountdown    = "task-countdown"
)

// Store is the key-value persistence collaborator. Writes overwrite
// wholesale; there are no transactions across keys and no cross-writer
// locking (last write wins).
type Store interface {
	// Get returns the raw JSON stored under key, or ok=false if the key
	// is absent.
	Get(ctx context.Context, key string) (raw json.RawMessage, ok bool, err error)

	// Set marshals value to JSON and overwrites the record under key.
	Set(ctx context.Context, key string, value any) error

	// Items reads the shopping list. An absent or malformed record reads
	// as an empty list.
	Items(ctx context.Context) ([]model.ShoppingItem, error)

	// SaveItems overwrites the shopping list.
	SaveItems(ctx context.Context, items []model.ShoppingItem) error

	// Countdown reads the countdown record. An absent or malformed
	// record reads as nil.
	Countdown(ctx context.Context) (*model.CountdownState, error)

	// SaveCountdown overwrites the countdown record.
	SaveCountdown(ctx context.Context, state model.CountdownState) error

	Close() error
}
