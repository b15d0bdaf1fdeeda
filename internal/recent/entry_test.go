package recent

import (
	"testing"
	"time"
)

func ids(list []Entry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Key()
	}
	return out
}

func equalKeys(t *testing.T, got []Entry, want ...string) {
	t.Helper()
	keys := ids(got)
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestRecordCapsAtCapacity(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	var list []Entry
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		list = Record(list, Entry{ID: id}, CardCapacity, now)
		now = now.Add(time.Second)
	}

	equalKeys(t, list, "G", "F", "E", "D", "C", "B")
}

func TestRecordMovesExistingToFront(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	list := []Entry{{ID: "C"}, {ID: "B"}, {ID: "A"}}

	got := Record(list, Entry{ID: "B", Title: "fresh"}, DefaultCapacity, now)

	equalKeys(t, got, "B", "C", "A")
	if got[0].Title != "fresh" {
		t.Errorf("front entry should carry the new snapshot, got %q", got[0].Title)
	}
	if got[0].Timestamp != now.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", got[0].Timestamp, now.UnixMilli())
	}
	if list[0].ID != "C" || len(list) != 3 {
		t.Error("Record must not modify its input")
	}
}

func TestRecordDedupesByCityAndSlug(t *testing.T) {
	now := time.Now()
	list := []Entry{
		{CitySlug: "paris", Slug: "louvre"},
		{CitySlug: "rome", Slug: "louvre"},
	}

	got := Record(list, Entry{CitySlug: "rome", Slug: "louvre"}, DefaultCapacity, now)

	equalKeys(t, got, "rome/louvre", "paris/louvre")
}

func TestRecordProperties(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	seq := []string{"a", "b", "a", "c", "d", "b", "e", "f", "g", "a", "h", "i", "j", "k", "l"}

	for _, capacity := range []int{1, 3, CardCapacity, DefaultCapacity} {
		var list []Entry
		for _, id := range seq {
			list = Record(list, Entry{ID: id}, capacity, now)
			now = now.Add(time.Millisecond)

			if len(list) > capacity {
				t.Fatalf("capacity %d: len = %d", capacity, len(list))
			}
			if list[0].ID != id {
				t.Fatalf("capacity %d: front = %q, want %q", capacity, list[0].ID, id)
			}
			seen := map[string]bool{}
			for i, e := range list {
				if seen[e.Key()] {
					t.Fatalf("capacity %d: duplicate %q in %v", capacity, e.Key(), ids(list))
				}
				seen[e.Key()] = true
				if i > 0 && e.Timestamp > list[i-1].Timestamp {
					t.Fatalf("capacity %d: not newest first: %v", capacity, list)
				}
			}
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{name: "id wins", entry: Entry{ID: "42", CitySlug: "paris", Slug: "louvre"}, want: "42"},
		{name: "city and slug", entry: Entry{CitySlug: "paris", Slug: "louvre"}, want: "paris/louvre"},
		{name: "empty", entry: Entry{Title: "nothing"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	list := []Entry{
		{ID: "a"},
		{Title: "keyless"},
		{ID: "b"},
		{ID: "a"},
		{ID: "c"},
		{ID: "d"},
	}

	equalKeys(t, Normalize(list, 3), "a", "b", "c")
	if got := Normalize(nil, 3); got == nil || len(got) != 0 {
		t.Errorf("Normalize(nil) = %#v, want empty slice", got)
	}
}

func TestIdAndPathDoNotCollide(t *testing.T) {
	byID := Entry{ID: "rome/colosseum", Title: "by id"}
	byPath := Entry{CitySlug: "rome", Slug: "colosseum", Title: "by path"}

	if byID.Same(byPath) {
		t.Error("an id shaped like a path matched the city/slug entry")
	}
	if !byPath.Same(Entry{CitySlug: "rome", Slug: "colosseum"}) {
		t.Error("equal city/slug entries should match")
	}
	if (Entry{}).Same(Entry{}) {
		t.Error("keyless entries should never match")
	}

	got := Record([]Entry{byPath}, byID, DefaultCapacity, time.Now())
	if len(got) != 2 || got[0].Title != "by id" || got[1].Title != "by path" {
		t.Errorf("Record() = %+v, want both entries kept", got)
	}
	if kept := Normalize([]Entry{byID, byPath}, DefaultCapacity); len(kept) != 2 {
		t.Errorf("Normalize() kept %d entries, want 2", len(kept))
	}
}
