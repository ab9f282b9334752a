package store

import (
	"context"
	"testing"

	"github.com/hudo-ng/ShoppingList/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		s := newTestStore(t)

		raw, ok, err := s.Get(ctx, "never-written")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok || raw != nil {
			t.Errorf("got ok=%v raw=%q, want absent", ok, raw)
		}
	})

	t.Run("set then get roundtrip", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.Set(ctx, "k", map[string]int{"n": 3}); err != nil {
			t.Fatalf("Set: %v", err)
		}

		raw, ok, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !ok {
			t.Fatal("got absent, want present")
		}
		if string(raw) != `{"n":3}` {
			t.Errorf("got %q", raw)
		}
	})

	t.Run("set overwrites wholesale", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.Set(ctx, "k", []int{1, 2, 3}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, "k", []int{9}); err != nil {
			t.Fatalf("Set: %v", err)
		}

		raw, _, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(raw) != `[9]` {
			t.Errorf("got %q, want [9]", raw)
		}
	})

	t.Run("items fresh key reads empty", func(t *testing.T) {
		s := newTestStore(t)

		items, err := s.Items(ctx)
		if err != nil {
			t.Fatalf("Items: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})

	t.Run("items roundtrip", func(t *testing.T) {
		s := newTestStore(t)

		completed := int64(1700000000500)
		in := []model.ShoppingItem{
			{ID: "a", Name: "Milk", LastUpdatedTimestamp: 1700000001000},
			{ID: "b", Name: "Tea", Quantity: "2 boxes", CompletedAtTimestamp: &completed, LastUpdatedTimestamp: 1700000000000},
		}
		if err := s.SaveItems(ctx, in); err != nil {
			t.Fatalf("SaveItems: %v", err)
		}

		out, err := s.Items(ctx)
		if err != nil {
			t.Fatalf("Items: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d items, want 2", len(out))
		}
		if out[0].Name != "Milk" || out[1].Quantity != "2 boxes" {
			t.Errorf("roundtrip mismatch: %+v", out)
		}
		if out[1].CompletedAtTimestamp == nil || *out[1].CompletedAtTimestamp != completed {
			t.Errorf("completed timestamp lost: %+v", out[1])
		}
		if out[0].CompletedAtTimestamp != nil {
			t.Errorf("incomplete item gained a completion timestamp")
		}
	})

	t.Run("malformed stored data reads as absent", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.db.Exec(
			"INSERT INTO kv (key, value) VALUES (?, ?)",
			KeyShoppingList, "{not json",
		)
		if err != nil {
			t.Fatalf("injecting malformed row: %v", err)
		}

		items, err := s.Items(ctx)
		if err != nil {
			t.Fatalf("Items: %v", err)
		}
		if items != nil {
			t.Errorf("got %v, want nil for malformed data", items)
		}

		_, err = s.db.Exec(
			"INSERT INTO kv (key, value) VALUES (?, ?)",
			KeyCountdown, `"just a string"`,
		)
		if err != nil {
			t.Fatalf("injecting malformed row: %v", err)
		}

		state, err := s.Countdown(ctx)
		if err != nil {
			t.Fatalf("Countdown: %v", err)
		}
		if state != nil {
			t.Errorf("got %+v, want nil for malformed data", state)
		}
	})

	t.Run("countdown roundtrip", func(t *testing.T) {
		s := newTestStore(t)

		state, err := s.Countdown(ctx)
		if err != nil {
			t.Fatalf("Countdown: %v", err)
		}
		if state != nil {
			t.Fatalf("got %+v, want nil on fresh db", state)
		}

		in := model.CountdownState{
			CurrentNotificationID: "note-1",
			CompletedAtTimestamps: []int64{1700000002000, 1700000001000},
			TaskName:              "Water plants",
		}
		if err := s.SaveCountdown(ctx, in); err != nil {
			t.Fatalf("SaveCountdown: %v", err)
		}

		out, err := s.Countdown(ctx)
		if err != nil {
			t.Fatalf("Countdown: %v", err)
		}
		if out == nil {
			t.Fatal("got nil, want state")
		}
		if out.CurrentNotificationID != "note-1" || out.TaskName != "Water plants" {
			t.Errorf("roundtrip mismatch: %+v", out)
		}
		last, ok := out.LastCompleted()
		if !ok || last != 1700000002000 {
			t.Errorf("LastCompleted = %d, %v", last, ok)
		}
	})
}
