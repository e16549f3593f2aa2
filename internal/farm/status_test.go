package farm

import (
	"testing"
	"time"
)

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}

func TestDaysSinceWateredNeverWatered(t *testing.T) {
	if got := DaysSinceWatered(nil); got != NeverWateredDays {
		t.Fatalf("expected %d for never-watered farm, got %d", NeverWateredDays, got)
	}
}

func TestDaysSinceWatered(t *testing.T) {
	if got := DaysSinceWatered(daysAgo(5)); got != 5 {
		t.Fatalf("expected 5 days, got %d", got)
	}
	if got := DaysSinceWatered(daysAgo(0)); got != 0 {
		t.Fatalf("expected 0 days for a fresh watering, got %d", got)
	}

	future := time.Now().Add(2 * time.Hour)
	if got := DaysSinceWatered(&future); got != 0 {
		t.Fatalf("expected 0 days for a future timestamp, got %d", got)
	}
}

func TestWateringStatusThresholds(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, WateringOK},
		{10, WateringOK},
		{20, WateringOK},
		{21, WateringSoon},
		{25, WateringSoon},
		{26, WateringOverdue},
		{100, WateringOverdue},
		{NeverWateredDays, WateringOverdue},
	}

	for _, tc := range cases {
		if got := WateringStatus(tc.days); got != tc.want {
			t.Errorf("WateringStatus(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestWateringStatusMonotonic(t *testing.T) {
	rank := map[string]int{WateringOK: 0, WateringSoon: 1, WateringOverdue: 2}

	prev := WateringStatus(0)
	for days := 1; days <= 40; days++ {
		cur := WateringStatus(days)
		if rank[cur] < rank[prev] {
			t.Fatalf("status went backwards at %d days: %s -> %s", days, prev, cur)
		}
		prev = cur
	}
}

func TestNextWateringDue(t *testing.T) {
	f := &Farm{WateringCycle: 10, LastWatered: daysAgo(3)}
	due := NextWateringDue(f)
	if due == nil {
		t.Fatal("expected a due date for a watered farm")
	}
	want := f.LastWatered.AddDate(0, 0, 10)
	if !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}

	if NextWateringDue(&Farm{}) != nil {
		t.Fatal("expected nil due date for a never-watered farm")
	}

	// A zero cycle falls back to the weekly default.
	f = &Farm{LastWatered: daysAgo(1)}
	due = NextWateringDue(f)
	if want := f.LastWatered.AddDate(0, 0, 7); !due.Equal(want) {
		t.Fatalf("default cycle due = %v, want %v", due, want)
	}
}
