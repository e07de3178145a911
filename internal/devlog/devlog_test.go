package devlog

import "testing"

func TestNilLogIsNoOp(t *testing.T) {
	var l *Log
	l.Set("k", "v") // must not panic
	l.Setf("k", "%d", 1)
	if got := l.Entries(); got != nil {
		t.Errorf("expected nil entries from nil log, got %v", got)
	}
	if _, ok := l.Get("k"); ok {
		t.Error("nil log should report no values")
	}
}

func TestEntriesPreserveInsertionOrder(t *testing.T) {
	l := New()
	l.Set("a", "1")
	l.Set("b", "2")
	l.Set("a", "3")

	got := l.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	want := []Entry{{"a", "1"}, {"b", "2"}, {"a", "3"}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGetReturnsLastValue(t *testing.T) {
	l := New()
	l.Set("k", "old")
	l.Set("k", "new")
	if v, ok := l.Get("k"); !ok || v != "new" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	if _, ok := l.Get("missing"); ok {
		t.Error("Get should miss unknown keys")
	}
}
