package timebucket

import (
	"fmt"
	"time"
)

// Buckets holds the derived grouping keys stored on every expense record.
// They are computed once when the record is written; all later reads,
// aggregations and retention sweeps key off the stored values and never
// recompute them from the raw date.
type Buckets struct {
	WeekLabel string
	MonthName string
	Year      int
}

// Compute derives the week/month/year buckets for an instant. Week numbering
// follows ISO 8601: week 1 is the week containing the year's first Thursday.
//
// The week label carries the ISO week-owning year, taken from the Thursday of
// the instant's week. Near year boundaries that year can differ from the Year
// field, which is always the calendar year of the instant itself: Dec 31 2024
// yields "Week 1 (2025)" with Year 2024. Downstream grouping depends on this
// split, so both values are kept as-is.
func Compute(t time.Time) Buckets {
	u := t.UTC()
	date := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	// Monday=1 .. Sunday=7
	isoWeekday := int(date.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}

	// Thursday of the date's own ISO week decides the owning year.
	thursday := date.AddDate(0, 0, 4-isoWeekday)
	yearStart := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(thursday.Sub(yearStart) / (24 * time.Hour))
	week := (days + 7) / 7 // ceil((days+1)/7)

	return Buckets{
		WeekLabel: fmt.Sprintf("Week %d (%d)", week, thursday.Year()),
		MonthName: u.Month().String(),
		Year:      u.Year(),
	}
}
