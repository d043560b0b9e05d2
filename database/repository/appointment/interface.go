package appointmentRepo

import (
	"context"
	"errors"

	"salonflow/models"
)

var (
	// ErrNotFound reports a lookup for an appointment that does not exist.
	// Callers must check with errors.Is; any other error is a storage fault.
	ErrNotFound = errors.New("appointment not found")
	// ErrStaleStatus reports a conditional update whose expected current
	// status no longer matched the stored record.
	ErrStaleStatus = errors.New("appointment status changed concurrently")
)

// AppointmentRepository is the persistence boundary for appointment records.
// Records are never deleted; status changes preserve history.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByPublicToken(ctx context.Context, token string) (*models.Appointment, error)
	// ListByStylistAndDate returns every appointment for one (stylist, date)
	// partition, regardless of status.
	ListByStylistAndDate(ctx context.Context, stylistID, date string) ([]models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	// UpdateStatus transitions an appointment from an expected current status.
	// It fails with ErrStaleStatus if the record is not in the expected
	// status, so racing transitions cannot both win.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, cancellationReason string) error
	// CloseOutRescheduled marks the old record rescheduled, linking its
	// successor, and inserts the successor in one transaction.
	CloseOutRescheduled(ctx context.Context, oldID string, successor *models.Appointment) error
	EnsureIndexes() error
}
