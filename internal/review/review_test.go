package review

import (
	"testing"

	"github.com/rcliao/tutor-engine/internal/model"
)

func item(id string, box int, last int64) model.WrongItem {
	return model.WrongItem{ID: id, Question: "q " + id, Box: box, Last: last}
}

func TestGapDays(t *testing.T) {
	tests := []struct {
		box  int
		want int64
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{0, 1},
		{7, 1},
	}
	for _, tt := range tests {
		if got := GapDays(tt.box); got != tt.want {
			t.Errorf("GapDays(%d) = %d, want %d", tt.box, got, tt.want)
		}
	}
}

func TestDue_IntervalBoundary(t *testing.T) {
	const last = int64(1000000)
	it := item("a", 2, last)

	// One second before the box-2 interval elapses: not due.
	if got := Due([]model.WrongItem{it}, last+2*secondsPerDay-1); len(got) != 0 {
		t.Errorf("expected not due 1s before interval, got %d items", len(got))
	}
	// Exactly at the interval: due.
	if got := Due([]model.WrongItem{it}, last+2*secondsPerDay); len(got) != 1 {
		t.Errorf("expected due at interval, got %d items", len(got))
	}
}

func TestDue_FallsBackToRecordTime(t *testing.T) {
	it := model.WrongItem{ID: "a", TS: 1000, Box: 1, Last: 0}
	got := Due([]model.WrongItem{it}, 1000+secondsPerDay)
	if len(got) != 1 {
		t.Fatalf("expected 1 due item using TS, got %d", len(got))
	}
}

func TestDue_Idempotent(t *testing.T) {
	items := []model.WrongItem{
		item("a", 1, 0),
		item("b", 3, 0),
	}
	items[0].TS, items[1].TS = 100, 100
	now := int64(100 + 10*secondsPerDay)

	first := Due(items, now)
	second := Due(items, now)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both calls to return 2 items, got %d and %d", len(first), len(second))
	}
	for i := range items {
		if items[i].Box != first[i].Box || items[i].Last != first[i].Last {
			t.Errorf("Due modified item %d", i)
		}
	}
	if first[0].ID != "a" || first[1].ID != "b" {
		t.Errorf("expected input order preserved, got %s, %s", first[0].ID, first[1].ID)
	}
}

func TestMastered_Promotes(t *testing.T) {
	now := int64(5000)
	got := Mastered(item("a", 1, 0), now)
	if got.Box != 2 {
		t.Errorf("expected box 2, got %d", got.Box)
	}
	if got.Last != now {
		t.Errorf("expected Last %d, got %d", now, got.Last)
	}
}

func TestMastered_CapsAtMaxBox(t *testing.T) {
	got := Mastered(item("a", 3, 0), 1)
	if got.Box != MaxBox {
		t.Errorf("expected box %d, got %d", MaxBox, got.Box)
	}
}

func TestMastered_RepairsCorruptBox(t *testing.T) {
	got := Mastered(item("a", 0, 0), 1)
	if got.Box != 2 {
		t.Errorf("expected box 0 treated as 1 then promoted to 2, got %d", got.Box)
	}
	got = Mastered(item("a", -5, 0), 1)
	if got.Box != 2 {
		t.Errorf("expected negative box treated as 1 then promoted to 2, got %d", got.Box)
	}
}

func TestStillWrong_ResetsToBoxOne(t *testing.T) {
	now := int64(7000)
	got := StillWrong(item("a", 3, 0), now)
	if got.Box != 1 {
		t.Errorf("expected box 1, got %d", got.Box)
	}
	if got.Last != now {
		t.Errorf("expected Last %d, got %d", now, got.Last)
	}
}
