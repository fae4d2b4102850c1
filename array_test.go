package jsonstore

import (
	"testing"

	"github.com/maruel/jsonstore/jsonval"
)

func listItems(t *testing.T, s *Store, name string) []jsonval.Value {
	t.Helper()
	m := s.Get(name, jsonval.Null())
	return m.Items()
}

func TestArrayAdd_AppendIsIdempotent(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	v := jsonval.String("v")
	s.ArrayAdd("list", v, jsonval.Key{})
	s.ArrayAdd("list", v, jsonval.Key{})
	if !s.ArrayHas("list", v) {
		t.Fatal("value should be present")
	}
	items := listItems(t, s, "list")
	n := 0
	for _, e := range items {
		if e.Equal(v) {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("value appears %d times, want 1", n)
	}
}

func TestArrayAdd_PreservesOrder(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArrayAdd("list", jsonval.String("a"), jsonval.Key{})
	s.ArrayAdd("list", jsonval.String("b"), jsonval.Key{})
	s.ArrayAdd("list", jsonval.String("c"), jsonval.Key{})
	items := listItems(t, s, "list")
	if len(items) != 3 || items[0].Str() != "a" || items[2].Str() != "c" {
		t.Fatalf("order broken: %v", items)
	}
}

func TestArrayAdd_WithKey(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArrayAdd("m", jsonval.Int(1), jsonval.Member("a"))
	// Key already taken: no-op.
	s.ArrayAdd("m", jsonval.Int(2), jsonval.Member("a"))
	got := s.ArrayGet("m", jsonval.Member("a"), jsonval.Null())
	if !got.Equal(jsonval.Int(1)) {
		t.Fatalf("ArrayGet(a) = %v, want 1", got)
	}
}

func TestArrayAdd_NoopCases(t *testing.T) {
	t.Run("null record", func(t *testing.T) {
		s, _ := setupStore(t, jsonval.Null())
		s.ArrayAdd("list", jsonval.String("v"), jsonval.Key{})
		if s.Has("list") {
			t.Fatal("ArrayAdd on a null record should be a no-op")
		}
	})
	t.Run("null key and value", func(t *testing.T) {
		s, _ := setupStore(t, jsonval.Object())
		s.ArrayAdd("list", jsonval.Null(), jsonval.Key{})
		if s.Has("list") {
			t.Fatal("ArrayAdd(null, no key) should be a no-op")
		}
	})
	t.Run("null value with key is stored", func(t *testing.T) {
		s, _ := setupStore(t, jsonval.Object())
		s.ArrayAdd("m", jsonval.Null(), jsonval.Member("k"))
		if !s.ArrayHasKey("m", jsonval.Member("k")) {
			t.Fatal("null value at an explicit key should be stored")
		}
	})
	t.Run("scalar member", func(t *testing.T) {
		s, _ := setupStore(t, jsonval.Object())
		s.Set("list", jsonval.String("scalar"))
		s.ArrayAdd("list", jsonval.String("v"), jsonval.Key{})
		if got := s.Get("list", jsonval.Null()); got.Kind() != jsonval.KindString {
			t.Fatalf("scalar member was replaced: %v", got)
		}
	})
}

func TestArraySet_UpsertOverwrites(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("list", jsonval.String("v"), jsonval.Index(0))
	s.ArraySet("list", jsonval.String("w"), jsonval.Index(0))
	got := s.ArrayGet("list", jsonval.Index(0), jsonval.Null())
	if got.Str() != "w" {
		t.Fatalf("ArrayGet(0) = %v, want \"w\"", got)
	}
	if len(listItems(t, s, "list")) != 1 {
		t.Fatal("upsert should not grow the list")
	}
}

func TestArraySet_AppendsWithoutKey(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("list", jsonval.String("v"), jsonval.Key{})
	s.ArraySet("list", jsonval.String("v"), jsonval.Key{})
	if len(listItems(t, s, "list")) != 2 {
		t.Fatal("ArraySet append is unconditional, want 2 elements")
	}
}

func TestArraySet_GrowsWithNulls(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("list", jsonval.String("v"), jsonval.Index(2))
	items := listItems(t, s, "list")
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if !items[0].IsNull() || !items[1].IsNull() || items[2].Str() != "v" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestArraySet_ObjectMember(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("m", jsonval.Int(1), jsonval.Member("a"))
	s.ArraySet("m", jsonval.Int(2), jsonval.Member("a"))
	got := s.ArrayGet("m", jsonval.Member("a"), jsonval.Null())
	if !got.Equal(jsonval.Int(2)) {
		t.Fatalf("ArrayGet(a) = %v, want 2", got)
	}
	if m := s.Get("m", jsonval.Null()); m.Kind() != jsonval.KindObject {
		t.Fatalf("member kind = %v, want object", m.Kind())
	}
}

func TestArrayHas(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArrayAdd("list", jsonval.Int(1), jsonval.Key{})
	if !s.ArrayHas("list", jsonval.Float(1)) {
		t.Fatal("numeric equality should match 1 and 1.0")
	}
	if s.ArrayHas("list", jsonval.Null()) {
		t.Fatal("null value never matches")
	}
	if s.ArrayHas("missing", jsonval.Int(1)) {
		t.Fatal("missing member never matches")
	}
	s.Set("scalar", jsonval.Int(1))
	if s.ArrayHas("scalar", jsonval.Int(1)) {
		t.Fatal("non-sequence member never matches")
	}
}

func TestArrayHasKey(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("list", jsonval.String("v"), jsonval.Key{})
	s.ArraySet("m", jsonval.Int(1), jsonval.Member("a"))

	if !s.ArrayHasKey("list", jsonval.Index(0)) {
		t.Fatal("index 0 should exist")
	}
	if s.ArrayHasKey("list", jsonval.Index(1)) {
		t.Fatal("index 1 should not exist")
	}
	if !s.ArrayHasKey("m", jsonval.Member("a")) {
		t.Fatal("member a should exist")
	}
	if s.ArrayHasKey("m", jsonval.Key{}) {
		t.Fatal("zero key never exists")
	}
}

func TestArrayGet_Default(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	def := jsonval.String("d")
	if got := s.ArrayGet("missing", jsonval.Index(0), def); !got.Equal(def) {
		t.Fatalf("ArrayGet = %v, want default", got)
	}
	s.ArraySet("list", jsonval.String("v"), jsonval.Key{})
	if got := s.ArrayGet("list", jsonval.Index(5), def); !got.Equal(def) {
		t.Fatalf("ArrayGet = %v, want default", got)
	}
}

func TestArrayRemove(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	s.ArraySet("list", jsonval.String("a"), jsonval.Key{})
	s.ArraySet("list", jsonval.String("b"), jsonval.Key{})
	s.ArrayRemove("list", jsonval.Index(0))
	items := listItems(t, s, "list")
	if len(items) != 1 || items[0].Str() != "b" {
		t.Fatalf("unexpected items after remove: %v", items)
	}
	// Missing key: no-op.
	s.ArrayRemove("list", jsonval.Index(9))
	if len(listItems(t, s, "list")) != 1 {
		t.Fatal("out of range remove should be a no-op")
	}

	s.ArraySet("m", jsonval.Int(1), jsonval.Member("a"))
	s.ArrayRemove("m", jsonval.Member("a"))
	if s.ArrayHasKey("m", jsonval.Member("a")) {
		t.Fatal("object entry should be removed")
	}
}

func TestArrayRemoveValue_FirstOccurrenceOnly(t *testing.T) {
	s, _ := setupStore(t, jsonval.Object())
	v := jsonval.String("v")
	s.ArraySet("list", v, jsonval.Key{})
	s.ArraySet("list", v, jsonval.Key{})
	s.ArrayRemoveValue("list", v)
	items := listItems(t, s, "list")
	if len(items) != 1 || !items[0].Equal(v) {
		t.Fatalf("want exactly one remaining occurrence, got %v", items)
	}
	// Not found and non-array members are no-ops.
	s.ArrayRemoveValue("list", jsonval.String("x"))
	s.ArrayRemoveValue("missing", v)
	s.Set("scalar", jsonval.Int(1))
	s.ArrayRemoveValue("scalar", jsonval.Int(1))
}
