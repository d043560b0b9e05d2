package models

import "time"

// Hold is a short-lived soft reservation of a time interval, taken while a
// client fills out the booking form. Holds keep the interval from showing
// as available to other sessions without creating an appointment. They are
// transient and expire automatically at ExpiresAt.
type Hold struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	StylistID string    `json:"stylistId"`
	Date      string    `json:"date"`  // "YYYY-MM-DD"
	Start     int       `json:"start"` // minutes from midnight
	End       int       `json:"end"`   // minutes from midnight
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Live reports whether the hold has not yet expired.
func (h Hold) Live(now time.Time) bool {
	return now.Before(h.ExpiresAt)
}

// Overlaps reports whether the hold's interval intersects [start, end),
// using half-open semantics: touching endpoints do not overlap.
func (h Hold) Overlaps(start, end int) bool {
	return h.Start < end && start < h.End
}
