package models

import (
	"fmt"
	"time"
)

// AppointmentStatus is the closed set of appointment states.
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "noShow"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("unknown appointment status: %s", s)
	}
}

var allowedTransitions = map[AppointmentStatus]map[AppointmentStatus]bool{
	StatusScheduled: {
		StatusConfirmed:   true,
		StatusCompleted:   true,
		StatusCancelled:   true,
		StatusNoShow:      true,
		StatusRescheduled: true,
	},
	StatusConfirmed: {
		StatusCompleted:   true,
		StatusCancelled:   true,
		StatusNoShow:      true,
		StatusRescheduled: true,
	},
	// Terminal states: a correction requires a new appointment.
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
	// Rescheduled appointments are closed out; the successor record carries on.
	StatusRescheduled: {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to AppointmentStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s AppointmentStatus) bool {
	return len(allowedTransitions[s]) == 0
}

// Appointment represents one confirmed or historical booking. Appointments
// are never physically deleted; cancellation is a status change.
type Appointment struct {
	ID                 string            `bson:"id" json:"id"`
	ClientID           string            `bson:"clientId" json:"clientId"`
	ServiceID          string            `bson:"serviceId" json:"serviceId"`
	StylistID          string            `bson:"stylistId" json:"stylistId"`
	Date               string            `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start              int               `bson:"start" json:"start"` // minutes from midnight
	End                int               `bson:"end" json:"end"`     // minutes from midnight
	Status             AppointmentStatus `bson:"status" json:"status"`
	Notes              string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationReason string            `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	// PublicToken lets a client view the appointment without an account;
	// ModificationToken additionally allows cancelling or rescheduling it.
	PublicToken       string    `bson:"publicToken,omitempty" json:"publicToken,omitempty"`
	ModificationToken string    `bson:"modificationToken,omitempty" json:"-"`
	RescheduledTo     string    `bson:"rescheduledTo,omitempty" json:"rescheduledTo,omitempty"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	LastModified      time.Time `bson:"lastModified" json:"lastModified"`
}

// Occupies reports whether the appointment still blocks its interval.
func (a Appointment) Occupies() bool {
	return a.Status != StatusCancelled && a.Status != StatusRescheduled
}
