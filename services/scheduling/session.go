package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonflow/models"
	"salonflow/utils"

	"github.com/google/uuid"
)

// BookingSessionService manages a client's stateful booking flow: open a
// session, adjust the selection (which re-computes availability and swaps
// the pre-booking), then confirm or abandon.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, clientID string) (*models.BookingSession, error)
	UpdateSession(ctx context.Context, sessionID string, sel SessionSelection) (*models.BookingSession, error)
	ConfirmSession(ctx context.Context, sessionID, notes string) (*models.Appointment, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// SessionSelection is the client's current choice of service, stylist, date
// and start time. Start is -1 while no time is selected.
type SessionSelection struct {
	ServiceID string `json:"serviceId"`
	StylistID string `json:"stylistId"`
	Date      string `json:"date"`
	Start     int    `json:"start"`
}

// DefaultBookingSessionService implements BookingSessionService backed by
// the Redis session cache.
type DefaultBookingSessionService struct {
	Engine SchedulingService
	TTL    time.Duration
}

// InitiateSession creates a new booking session, assigns it a unique
// SessionID, and stores it in Redis.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, clientID string) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		ClientID:  clientID,
		Start:     -1,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession applies a changed selection. The previous hold is always
// released first, so abandoned selections never linger; when the new
// selection is complete a fresh hold is placed and availability recomputed.
func (s *DefaultBookingSessionService) UpdateSession(ctx context.Context, sessionID string, sel SessionSelection) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.HoldID != "" {
		s.Engine.ReleaseHold(session.HoldID)
		session.HoldID = ""
	}

	session.ServiceID = sel.ServiceID
	session.StylistID = sel.StylistID
	session.Date = sel.Date
	session.Start = sel.Start
	session.Availability = nil

	if session.ServiceID != "" && session.StylistID != "" && session.Date != "" {
		slots, err := s.Engine.ComputeBookableSlots(ctx, session.StylistID, session.Date, session.ServiceID, session.SessionID)
		if err != nil {
			return nil, err
		}
		session.Availability = slots

		if session.Start >= 0 {
			holdID, err := s.Engine.PlaceHold(ctx, session.ServiceID, session.StylistID, session.Date, session.Start, session.SessionID)
			if err != nil {
				return nil, err
			}
			session.HoldID = holdID
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmSession finalizes the booking: the hold is converted into a
// scheduled appointment and the session is discarded.
func (s *DefaultBookingSessionService) ConfirmSession(ctx context.Context, sessionID, notes string) (*models.Appointment, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasSelection() {
		return nil, NewInvalidScheduleError("session %s has an incomplete selection", sessionID)
	}

	appt, err := s.Engine.CreateAppointment(ctx, CreateAppointmentRequest{
		ClientID:  session.ClientID,
		ServiceID: session.ServiceID,
		StylistID: session.StylistID,
		Date:      session.Date,
		Start:     session.Start,
		Notes:     notes,
		SessionID: session.SessionID,
		HoldID:    session.HoldID,
	})
	if err != nil {
		return nil, err
	}

	utils.GetSessionCacheClient().Del(ctx, sessionID)
	return appt, nil
}

// CancelSession releases the session's hold and removes the session.
// Cancelling an unknown or expired session is a no-op.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	session, err := s.load(ctx, sessionID)
	if err == nil && session.HoldID != "" {
		s.Engine.ReleaseHold(session.HoldID)
	}
	if err := utils.GetSessionCacheClient().Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

func (s *DefaultBookingSessionService) load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := utils.GetSessionCacheClient().Get(ctx, sessionID).Result()
	if err != nil {
		return nil, NewNotFoundError("booking session %s not found or expired", sessionID)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultBookingSessionService) save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := utils.GetSessionCacheClient().Set(ctx, session.SessionID, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}
