package models

import (
	"fmt"
	"time"
)

// BreakWindow is a non-bookable interval inside a working day,
// e.g. a lunch break. Times are minutes from midnight.
type BreakWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// DayHours describes one weekday of a stylist's schedule.
type DayHours struct {
	IsWorking bool          `bson:"isWorking" json:"isWorking"`
	Start     int           `bson:"start,omitempty" json:"start,omitempty"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End       int           `bson:"end,omitempty" json:"end,omitempty"`     // minutes from midnight (e.g., 1080 for 6:00 PM)
	Breaks    []BreakWindow `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// WorkingHours is a stylist's full weekly schedule, configured by staff
// and changed rarely.
type WorkingHours struct {
	StylistID string                    `bson:"stylistId" json:"stylistId"`
	Days      map[time.Weekday]DayHours `bson:"days" json:"days"`
}

// Validate checks the invariants of a single working day: start before end,
// every break strictly inside [start, end), breaks ordered and non-overlapping.
func (d DayHours) Validate() error {
	if !d.IsWorking {
		return nil
	}
	if d.Start < 0 || d.End > 24*60 {
		return fmt.Errorf("working hours [%d, %d] outside the day", d.Start, d.End)
	}
	if d.Start >= d.End {
		return fmt.Errorf("working start %d is not before end %d", d.Start, d.End)
	}
	prevEnd := d.Start
	for i, b := range d.Breaks {
		if b.Start >= b.End {
			return fmt.Errorf("break %d: start %d is not before end %d", i, b.Start, b.End)
		}
		if b.Start < d.Start || b.End > d.End {
			return fmt.Errorf("break %d: [%d, %d] outside working hours [%d, %d]", i, b.Start, b.End, d.Start, d.End)
		}
		if i > 0 && b.Start < prevEnd {
			return fmt.Errorf("break %d overlaps the previous break", i)
		}
		prevEnd = b.End
	}
	return nil
}

// Validate checks every configured day.
func (w WorkingHours) Validate() error {
	for wd, day := range w.Days {
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", wd, err)
		}
	}
	return nil
}

// DayFor returns the schedule entry for the weekday of the given date.
// A weekday with no entry is treated as a day off.
func (w WorkingHours) DayFor(date time.Time) DayHours {
	return w.Days[date.Weekday()]
}
