package models

// BookingSession holds a client's in-progress selection between opening the
// booking form and confirming an appointment. Sessions live in Redis with a
// TTL matching the hold TTL.
type BookingSession struct {
	SessionID    string         `json:"sessionId"`
	ClientID     string         `json:"clientId"`
	ServiceID    string         `json:"serviceId,omitempty"`
	StylistID    string         `json:"stylistId,omitempty"`
	Date         string         `json:"date,omitempty"`
	Start        int            `json:"start,omitempty"` // selected start, minutes from midnight; -1 when unselected
	HoldID       string         `json:"holdId,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Availability []BookableSlot `json:"availability,omitempty"`
}

// HasSelection reports whether the session has a complete slot selection.
func (s BookingSession) HasSelection() bool {
	return s.ServiceID != "" && s.StylistID != "" && s.Date != "" && s.Start >= 0
}
