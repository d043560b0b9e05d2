package scheduling

import (
	"time"

	"salonflow/models"
)

// SnapshotFilter controls which occupants are visible in a snapshot.
type SnapshotFilter struct {
	// OwnSession marks holds belonging to this session as non-blocking, so
	// a client does not conflict with their own pre-booking.
	OwnSession string
	// ExcludeAppointmentID removes one appointment from the snapshot; used
	// when rescheduling so the record being moved does not block its own
	// target interval.
	ExcludeAppointmentID string
	Now                  time.Time
}

// OccupancySnapshot answers "is this interval free" for one (stylist, date)
// partition at a single instant. It is the union of non-cancelled
// appointments and live holds from other sessions.
type OccupancySnapshot struct {
	busy []interval
}

type interval struct {
	start, end int
}

// BuildOccupancySnapshot merges appointments and holds into a snapshot.
// Callers are expected to pass records for a single (stylist, date) pair.
func BuildOccupancySnapshot(appts []models.Appointment, holds []models.Hold, f SnapshotFilter) *OccupancySnapshot {
	snap := &OccupancySnapshot{}
	for _, a := range appts {
		if !a.Occupies() || a.ID == f.ExcludeAppointmentID {
			continue
		}
		snap.busy = append(snap.busy, interval{a.Start, a.End})
	}
	for _, h := range holds {
		if h.SessionID == f.OwnSession || !h.Live(f.Now) {
			continue
		}
		snap.busy = append(snap.busy, interval{h.Start, h.End})
	}
	return snap
}

// IsFree reports whether [start, end) overlaps no occupant. Half-open
// semantics: an interval ending exactly where another starts is free.
func (s *OccupancySnapshot) IsFree(start, end int) bool {
	for _, b := range s.busy {
		if b.start < end && start < b.end {
			return false
		}
	}
	return true
}
