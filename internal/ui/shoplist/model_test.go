package shoplist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hudo-ng/ShoppingList/internal/keys"
	shopping "github.com/hudo-ng/ShoppingList/internal/list"
	"github.com/hudo-ng/ShoppingList/tests/testutil"
)

func TestAddThroughUpdate(t *testing.T) {
	svc := shopping.NewService(testutil.NewTestStore(t), nil, shopping.Policy{})
	m := New(svc, keys.DefaultKeyMap(), 80, 24)

	// Enter add mode, type an entry with a trailing count, and submit.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if !m.CapturesInput() {
		t.Fatal("add key did not enter add mode")
	}
	m.addInput.SetValue("Milk 2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not produce an add command")
	}

	raw := cmd()
	msg, ok := raw.(ItemsLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want ItemsLoadedMsg", raw)
	}
	if msg.Err != nil {
		t.Fatalf("add failed: %v", msg.Err)
	}
	if len(msg.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(msg.Items))
	}
	if msg.Items[0].Name != "Milk" || msg.Items[0].Quantity != "2" {
		t.Errorf("got %q quantity %q, want Milk quantity 2", msg.Items[0].Name, msg.Items[0].Quantity)
	}

	// Feeding the result back populates the visible list.
	m, _ = m.Update(msg)
	if len(m.list.Items()) != 1 {
		t.Errorf("got %d visible items, want 1", len(m.list.Items()))
	}

	// A duplicate name is surfaced as an inline status message.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m.addInput.SetValue("milk")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	dup, ok := cmd().(ItemsLoadedMsg)
	if !ok || dup.Err == nil {
		t.Fatal("duplicate add should carry an error")
	}
	m, _ = m.Update(dup)
	if m.statusMsg == "" {
		t.Error("duplicate error not surfaced in the status line")
	}
}

func TestParseEntry(t *testing.T) {
	cases := []struct {
		entry        string
		wantName     string
		wantQuantity string
	}{
		{"Milk", "Milk", ""},
		{"Milk 2", "Milk", "2"},
		{"Olive oil 3", "Olive oil", "3"},
		{"  Bread  ", "Bread", ""},
		{"Coke Zero", "Coke Zero", ""},
		{"Eggs 0", "Eggs 0", ""},
		{"Eggs -2", "Eggs -2", ""},
		{"12", "12", ""},
	}
	for _, tc := range cases {
		name, quantity := parseEntry(tc.entry)
		if name != tc.wantName || quantity != tc.wantQuantity {
			t.Errorf("parseEntry(%q) = %q, %q; want %q, %q",
				tc.entry, name, quantity, tc.wantName, tc.wantQuantity)
		}
	}
}
