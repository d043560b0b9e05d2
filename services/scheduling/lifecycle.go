package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	appointmentRepo "salonflow/database/repository/appointment"
	"salonflow/models"
	"salonflow/services/tasks"
	"salonflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAppointmentRequest carries everything needed to convert a session's
// selection into a scheduled appointment.
type CreateAppointmentRequest struct {
	ClientID  string
	ServiceID string
	StylistID string
	Date      string
	Start     int // minutes from midnight
	Notes     string
	SessionID string
	HoldID    string
}

// PlaceHold validates that the requested start can accommodate the service
// and registers a pre-booking for the session. It runs under the partition
// lock so the availability check and the hold registration are one step.
func (e *Engine) PlaceHold(ctx context.Context, serviceID, stylistID, date string, start int, sessionID string) (string, error) {
	svc, err := e.Staff.GetService(ctx, serviceID)
	if err != nil {
		return "", fmt.Errorf("failed to load service: %w", err)
	}

	lock := e.partitions.get(partitionKey(stylistID, date))
	lock.Lock()
	defer lock.Unlock()

	if err := e.requireBookable(ctx, stylistID, date, serviceID, sessionID, start, ""); err != nil {
		return "", err
	}
	return e.Holds.AddPreBooking(HoldRequest{
		StylistID: stylistID,
		Date:      date,
		Start:     start,
		End:       start + svc.DurationMin,
	}, sessionID)
}

// ReleaseHold frees a pre-booking; unknown ids are a no-op.
func (e *Engine) ReleaseHold(holdID string) {
	e.Holds.RemovePreBooking(holdID)
}

// CreateAppointment converts a hold into a scheduled appointment. The
// availability check is re-run at submission time under the partition lock,
// guarding against another appointment confirmed since the form snapshot.
// The session's hold is released regardless of outcome.
func (e *Engine) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*models.Appointment, error) {
	defer e.Holds.RemovePreBooking(req.HoldID)

	svc, err := e.Staff.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc.DurationMin <= 0 {
		return nil, NewInvalidDurationError("service %s has non-positive duration %d", req.ServiceID, svc.DurationMin)
	}

	lock := e.partitions.get(partitionKey(req.StylistID, req.Date))
	lock.Lock()
	defer lock.Unlock()

	if err := e.requireBookable(ctx, req.StylistID, req.Date, req.ServiceID, req.SessionID, req.Start, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:                uuid.New().String(),
		ClientID:          req.ClientID,
		ServiceID:         req.ServiceID,
		StylistID:         req.StylistID,
		Date:              req.Date,
		Start:             req.Start,
		End:               req.Start + svc.DurationMin,
		Status:            models.StatusScheduled,
		Notes:             req.Notes,
		PublicToken:       uuid.New().String(),
		ModificationToken: uuid.New().String(),
		CreatedAt:         now,
		LastModified:      now,
	}
	if err := e.Appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	e.scheduleReminder(appt)
	e.notifyStylist(ctx, appt, "New appointment",
		fmt.Sprintf("%s on %s at %s", svc.Name, appt.Date, utils.FormatClock(appt.Start)))

	return appt, nil
}

// requireBookable re-computes availability for the partition and fails with
// a slot conflict unless the requested start is currently bookable. Callers
// must hold the partition lock.
func (e *Engine) requireBookable(ctx context.Context, stylistID, date, serviceID, sessionID string, start int, excludeApptID string) error {
	svc, err := e.Staff.GetService(ctx, serviceID)
	if err != nil {
		return fmt.Errorf("failed to load service: %w", err)
	}
	slots, err := e.daySlots(ctx, stylistID, date)
	if err != nil {
		return err
	}
	snap, err := e.snapshot(ctx, stylistID, date, SnapshotFilter{
		OwnSession:           sessionID,
		ExcludeAppointmentID: excludeApptID,
	})
	if err != nil {
		return err
	}
	bookable, err := bookableStartTimes(slots, svc.DurationMin, e.Granularity, snap)
	if err != nil {
		return err
	}
	for _, b := range bookable {
		if b.Start == start {
			return nil
		}
	}
	return NewSlotConflictError("slot %s on %s is no longer available", utils.FormatClock(start), date)
}

// Confirm moves a scheduled appointment to confirmed.
func (e *Engine) Confirm(ctx context.Context, id string) error {
	return e.transition(ctx, id, models.StatusConfirmed, "")
}

// Complete closes out a visit that took place.
func (e *Engine) Complete(ctx context.Context, id string) error {
	return e.transition(ctx, id, models.StatusCompleted, "")
}

// Cancel releases an appointment's interval. The record is kept for history.
func (e *Engine) Cancel(ctx context.Context, id, reason string) error {
	return e.transition(ctx, id, models.StatusCancelled, reason)
}

// MarkNoShow records that the client did not arrive.
func (e *Engine) MarkNoShow(ctx context.Context, id string) error {
	return e.transition(ctx, id, models.StatusNoShow, "")
}

// loadAppointment fetches one record, translating a missing record into the
// not-found scheduling error. Storage faults pass through wrapped.
func (e *Engine) loadAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := e.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, NewNotFoundError("appointment %s not found", id)
		}
		return nil, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	return appt, nil
}

func (e *Engine) transition(ctx context.Context, id string, to models.AppointmentStatus, reason string) error {
	appt, err := e.loadAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !models.CanTransition(appt.Status, to) {
		return NewInvalidTransitionError("cannot move appointment %s from %s to %s", id, appt.Status, to)
	}

	lock := e.partitions.get(partitionKey(appt.StylistID, appt.Date))
	lock.Lock()
	defer lock.Unlock()

	// Compare-and-set against the status we read; a racing transition that
	// got there first surfaces as an invalid transition. Anything other than
	// a stale-status miss is a storage fault and stays one.
	if err := e.Appointments.UpdateStatus(ctx, id, appt.Status, to, reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrStaleStatus) {
			return NewInvalidTransitionError("appointment %s is no longer in status %s", id, appt.Status)
		}
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	utils.GetLogger().Info("appointment status changed",
		zap.String("appointmentId", id),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(to)))

	if to == models.StatusCancelled {
		e.notifyStylist(ctx, appt, "Appointment cancelled",
			fmt.Sprintf("%s at %s was cancelled", appt.Date, utils.FormatClock(appt.Start)))
	}
	return nil
}

// Reschedule moves an appointment to a new date, start time and optionally
// a new stylist. Both the old and the new partition are locked (in sorted
// order) for the duration, so the vacated interval is never observable as
// free before the new one is occupied, and the repository swap closes out
// the old record and inserts the successor in one transaction.
func (e *Engine) Reschedule(ctx context.Context, id, newDate string, newStart int, newStylistID string) (*models.Appointment, error) {
	appt, err := e.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(appt.Status, models.StatusRescheduled) {
		return nil, NewInvalidTransitionError("cannot reschedule appointment %s in status %s", id, appt.Status)
	}
	if newStylistID == "" {
		newStylistID = appt.StylistID
	}
	svc, err := e.Staff.GetService(ctx, appt.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	oldKey := partitionKey(appt.StylistID, appt.Date)
	newKey := partitionKey(newStylistID, newDate)
	for _, key := range lockOrder(oldKey, newKey) {
		lock := e.partitions.get(key)
		lock.Lock()
		defer lock.Unlock()
	}

	// The record being moved must not block its own target interval.
	if err := e.requireBookable(ctx, newStylistID, newDate, appt.ServiceID, "", newStart, appt.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	successor := &models.Appointment{
		ID:        uuid.New().String(),
		ClientID:  appt.ClientID,
		ServiceID: appt.ServiceID,
		StylistID: newStylistID,
		Date:      newDate,
		Start:     newStart,
		End:       newStart + svc.DurationMin,
		Status:    models.StatusScheduled,
		Notes:     appt.Notes,
		// Client-facing links keep working across the move.
		PublicToken:       appt.PublicToken,
		ModificationToken: appt.ModificationToken,
		CreatedAt:         now,
		LastModified:      now,
	}
	if err := e.Appointments.CloseOutRescheduled(ctx, appt.ID, successor); err != nil {
		if errors.Is(err, appointmentRepo.ErrStaleStatus) {
			return nil, NewInvalidTransitionError("appointment %s could not be rescheduled: %v", id, err)
		}
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	utils.GetLogger().Info("appointment rescheduled",
		zap.String("appointmentId", appt.ID),
		zap.String("successorId", successor.ID),
		zap.String("newDate", newDate),
		zap.Int("newStart", newStart))

	e.scheduleReminder(successor)
	e.notifyStylist(ctx, successor, "Appointment rescheduled",
		fmt.Sprintf("moved to %s at %s", newDate, utils.FormatClock(newStart)))

	return successor, nil
}

func lockOrder(a, b string) []string {
	if a == b {
		return []string{a}
	}
	keys := []string{a, b}
	sort.Strings(keys)
	return keys
}

// scheduleReminder enqueues the push reminder ahead of the appointment.
// Best effort: a queueing failure never fails the booking.
func (e *Engine) scheduleReminder(appt *models.Appointment) {
	if e.TaskClient == nil || e.ReminderLeadMin <= 0 {
		return
	}

	startAt, err := utils.CombineDateAndMinute(appt.Date, appt.Start, time.Local)
	if err != nil {
		return
	}
	fireAt := startAt.Add(-time.Duration(e.ReminderLeadMin) * time.Minute)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		StylistID:     appt.StylistID,
		ClientID:      appt.ClientID,
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("You have an appointment on %s at %s", appt.Date, utils.FormatClock(appt.Start)),
		FireDate:      fireAt.Format(time.RFC3339),
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		utils.GetLogger().Error("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := e.TaskClient.Enqueue(task, opts...); err != nil {
		utils.GetLogger().Error("failed to enqueue reminder task",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (e *Engine) notifyStylist(ctx context.Context, appt *models.Appointment, title, body string) {
	if e.Notifier == nil {
		return
	}
	data := map[string]string{"appointmentId": appt.ID, "date": appt.Date}
	if err := e.Notifier.SendStylistPush(ctx, appt.StylistID, title, body, data); err != nil {
		utils.GetLogger().Warn("stylist push failed",
			zap.String("stylistId", appt.StylistID), zap.Error(err))
	}
}
