package farm

import "time"

const (
	WateringOK      = "ok"
	WateringSoon    = "soon"
	WateringOverdue = "overdue"

	// NeverWateredDays is the sentinel for farms with no recorded watering.
	NeverWateredDays = 999

	okThresholdDays   = 20
	soonThresholdDays = 25
)

// DaysSinceWatered returns whole days elapsed since the last watering,
// or NeverWateredDays when the farm has never been watered.
func DaysSinceWatered(lastWatered *time.Time) int {
	if lastWatered == nil {
		return NeverWateredDays
	}
	elapsed := time.Since(*lastWatered)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}

// WateringStatus buckets a day count: ok up to 20 days, soon up to 25,
// overdue beyond that. The thresholds are fixed across all farms.
func WateringStatus(days int) string {
	switch {
	case days <= okThresholdDays:
		return WateringOK
	case days <= soonThresholdDays:
		return WateringSoon
	default:
		return WateringOverdue
	}
}

// NextWateringDue computes when a farm is next due based on its own
// watering cycle. Nil when the farm has never been watered.
func NextWateringDue(f *Farm) *time.Time {
	if f.LastWatered == nil {
		return nil
	}
	cycle := f.WateringCycle
	if cycle <= 0 {
		cycle = 7
	}
	due := f.LastWatered.AddDate(0, 0, cycle)
	return &due
}
