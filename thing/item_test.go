package thing

import (
	"reflect"
	"testing"
)

// TestItemFields tests field storage and ordering.
func TestItemFields(t *testing.T) {
	t.Parallel()

	t.Run("keys keep insertion order", func(t *testing.T) {
		t.Parallel()

		item := NewItem().Set("url", "https://example.com").Set("status", 200).Set("title", "Example")
		want := []string{"url", "status", "title"}
		if got := item.Keys(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected keys %v, got %v", want, got)
		}
		if item.Len() != 3 {
			t.Errorf("expected 3 fields, got %d", item.Len())
		}
	})

	t.Run("re-set keeps position and replaces value", func(t *testing.T) {
		t.Parallel()

		item := NewItem().Set("a", 1).Set("b", 2).Set("a", 3)
		if got := item.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("unexpected keys %v", got)
		}
		v, ok := item.Get("a")
		if !ok || v != 3 {
			t.Errorf("expected a=3, got %v", v)
		}
	})

	t.Run("typed getters", func(t *testing.T) {
		t.Parallel()

		item := NewItem().Set("title", "Example").Set("status", 200)
		if got := item.GetString("title"); got != "Example" {
			t.Errorf("unexpected title %q", got)
		}
		if got := item.GetString("status"); got != "" {
			t.Errorf("expected empty string for non-string field, got %q", got)
		}
		if _, ok := item.Get("missing"); ok {
			t.Error("expected missing field to report absence")
		}
	})

	t.Run("kind is Item", func(t *testing.T) {
		t.Parallel()

		if got := NewItem().Kind(); got != KindItem {
			t.Errorf("expected kind %s, got %s", KindItem, got)
		}
	})
}

// TestItemMarshalJSON tests ordered JSON encoding.
func TestItemMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("fields appear in insertion order", func(t *testing.T) {
		t.Parallel()

		item := NewItem().Set("z", 1).Set("a", "two").Set("m", []int{3})
		data, err := item.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"z":1,"a":"two","m":[3]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("empty item encodes to empty object", func(t *testing.T) {
		t.Parallel()

		data, err := NewItem().MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("expected {}, got %s", data)
		}
	})

	t.Run("unencodable value fails", func(t *testing.T) {
		t.Parallel()

		if _, err := NewItem().Set("bad", func() {}).MarshalJSON(); err == nil {
			t.Error("expected error for unencodable field")
		}
	})
}
