package list

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/notify"
	"github.com/hudo-ng/ShoppingList/internal/store"
)

// ErrEmptyName rejects an item submission with a blank name.
var ErrEmptyName = errors.New("item name must not be empty")

// ErrDuplicateName rejects an item whose name case-insensitively matches
// an existing item, unless the policy allows duplicates.
var ErrDuplicateName = errors.New("item already on the list")

// ErrNotFound reports a mutation against an id that is not on the list.
var ErrNotFound = errors.New("item not found")

// Policy configures list behaviors that varied between app releases.
type Policy struct {
	AllowDuplicateNames bool
}

// Service manages the shopping list: every mutation goes through the
// store so the persisted array always reflects the latest state. There
// is no cross-operation locking; two rapid mutations are a
// read-modify-write race where the last successful write wins.
type Service struct {
	store    store.Store
	feedback notify.Feedback
	policy   Policy
}

// NewService creates a list service. A nil feedback is replaced with a
// no-op implementation.
func NewService(s store.Store, fb notify.Feedback, p Policy) *Service {
	if fb == nil {
		fb = notify.NopFeedback{}
	}
	return &Service{store: s, feedback: fb, policy: p}
}

// Items returns the current list in display order.
func (s *Service) Items(ctx context.Context) ([]model.ShoppingItem, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}
	return Order(items), nil
}

// Add validates and prepends a new item, persists the list, and returns
// it in display order.
func (s *Service) Add(ctx context.Context, name, quantity string) ([]model.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}

	if !s.policy.AllowDuplicateNames {
		for _, item := range items {
			if strings.EqualFold(item.Name, name) {
				return nil, fmt.Errorf("adding %q: %w", name, ErrDuplicateName)
			}
		}
	}

	item := model.ShoppingItem{
		ID:                   uuid.NewString(),
		Name:                 name,
		Quantity:             strings.TrimSpace(quantity),
		LastUpdatedTimestamp: model.NowMillis(),
	}
	items = append([]model.ShoppingItem{item}, items...)

	if err := s.store.SaveItems(ctx, items); err != nil {
		return nil, fmt.Errorf("saving list after add: %w", err)
	}
	return Order(items), nil
}

// Delete removes an item by id and persists the list. Confirmation is
// the caller's responsibility; the service assumes the user already
// said yes.
func (s *Service) Delete(ctx context.Context, id string) ([]model.ShoppingItem, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}

	kept := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil, fmt.Errorf("deleting item %s: %w", id, ErrNotFound)
	}

	if err := s.store.SaveItems(ctx, kept); err != nil {
		return nil, fmt.Errorf("saving list after delete: %w", err)
	}

	// Signal only once the removal is durable.
	s.feedback.Impact()

	return Order(kept), nil
}

// Toggle flips an item's completion state: unset becomes now, set
// becomes unset. The last-updated timestamp is refreshed either way, and
// a direction-dependent feedback signal fires.
func (s *Service) Toggle(ctx context.Context, id string) ([]model.ShoppingItem, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for i, item := range items {
		if item.ID != id {
			continue
		}
		found = true

		now := model.NowMillis()
		if item.Completed() {
			items[i].CompletedAtTimestamp = nil
			s.feedback.Impact()
		} else {
			items[i].CompletedAtTimestamp = &now
			s.feedback.Success()
		}
		items[i].LastUpdatedTimestamp = now
		break
	}
	if !found {
		return nil, fmt.Errorf("toggling item %s: %w", id, ErrNotFound)
	}

	if err := s.store.SaveItems(ctx, items); err != nil {
		return nil, fmt.Errorf("saving list after toggle: %w", err)
	}
	return Order(items), nil
}
