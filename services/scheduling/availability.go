package scheduling

import (
	"context"
	"fmt"
	"time"

	"salonflow/models"
	"salonflow/utils"
)

// daySlots resolves working hours for the stylist's weekday and generates
// the raw slot sequence.
func (e *Engine) daySlots(ctx context.Context, stylistID, date string) ([]models.TimeSlot, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, NewInvalidScheduleError("%v", err)
	}
	hours, err := e.Staff.GetWorkingHours(ctx, stylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load working hours: %w", err)
	}
	return GenerateSlots(hours.DayFor(day), e.Granularity)
}

// snapshot builds the occupancy view for one partition from persisted
// appointments plus live holds.
func (e *Engine) snapshot(ctx context.Context, stylistID, date string, f SnapshotFilter) (*OccupancySnapshot, error) {
	appts, err := e.Appointments.ListByStylistAndDate(ctx, stylistID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}
	return BuildOccupancySnapshot(appts, e.Holds.LiveHolds(stylistID, date), f), nil
}

// GetDaySchedule returns the full ordered slot sequence for one stylist on
// one date, with each slot annotated: a slot is unavailable when it falls
// on a break or overlaps an occupant visible to the session.
func (e *Engine) GetDaySchedule(ctx context.Context, stylistID, date, sessionID string) (*models.DaySchedule, error) {
	slots, err := e.daySlots(ctx, stylistID, date)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(ctx, stylistID, date, SnapshotFilter{OwnSession: sessionID})
	if err != nil {
		return nil, err
	}

	for i := range slots {
		if slots[i].Available && !snap.IsFree(slots[i].Start, slots[i].End) {
			slots[i].Available = false
		}
	}
	return &models.DaySchedule{
		StylistID:   stylistID,
		Date:        date,
		Granularity: e.Granularity,
		Slots:       slots,
	}, nil
}

// ComputeBookableSlots returns, in chronological order, every start time at
// which the full duration of the given service fits into free working-hours
// slots. The computation is pure given the occupancy snapshot taken at call
// time; callers re-query whenever their inputs change.
func (e *Engine) ComputeBookableSlots(ctx context.Context, stylistID, date, serviceID, sessionID string) ([]models.BookableSlot, error) {
	svc, err := e.Staff.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	slots, err := e.daySlots(ctx, stylistID, date)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(ctx, stylistID, date, SnapshotFilter{OwnSession: sessionID})
	if err != nil {
		return nil, err
	}
	return bookableStartTimes(slots, svc.DurationMin, e.Granularity, snap)
}

// bookableStartTimes is the pure core of the availability calculation. A
// start is bookable iff every consecutive slot needed to cover the duration
// exists, lies within working hours, and is independently free.
func bookableStartTimes(slots []models.TimeSlot, durationMin, granularity int, snap *OccupancySnapshot) ([]models.BookableSlot, error) {
	if durationMin <= 0 {
		return nil, NewInvalidDurationError("service duration must be positive, got %d", durationMin)
	}

	needed := (durationMin + granularity - 1) / granularity

	var bookable []models.BookableSlot
	// A run extending past the end of the day has no slot to extend into.
	for i := 0; i+needed <= len(slots); i++ {
		fits := true
		for k := 0; k < needed; k++ {
			s := slots[i+k]
			if s.Start != slots[i].Start+k*granularity {
				// Non-contiguous sequence; cannot happen for generated
				// schedules, but guard against hand-built input.
				fits = false
				break
			}
			if !s.Available || !snap.IsFree(s.Start, s.End) {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}
		start := slots[i].Start
		end := start + durationMin
		bookable = append(bookable, models.BookableSlot{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s - %s", utils.FormatClock(start), utils.FormatClock(end)),
		})
	}
	return bookable, nil
}
