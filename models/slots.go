package models

// TimeSlot is one fixed-width candidate interval within a working day.
// Slots are recomputed on demand and never persisted independently.
type TimeSlot struct {
	Start     int  `json:"start"` // minutes from midnight
	End       int  `json:"end"`   // minutes from midnight
	Available bool `json:"available"`
}

// DaySchedule is the full ordered slot sequence for one stylist on one date.
// Derived, not stored.
type DaySchedule struct {
	StylistID   string     `json:"stylistId"`
	Date        string     `json:"date"`
	Granularity int        `json:"granularity"` // slot width in minutes
	Slots       []TimeSlot `json:"slots"`
}

// BookableSlot is a start time that can accommodate a full service duration.
type BookableSlot struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"` // e.g. "09:00 - 10:00"
}
