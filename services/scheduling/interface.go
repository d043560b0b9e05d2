package scheduling

import (
	"context"
	"sync"

	appointmentRepo "salonflow/database/repository/appointment"
	staffRepo "salonflow/database/repository/staff"
	"salonflow/models"
	"salonflow/services/notification"

	"github.com/hibiken/asynq"
)

// SchedulingService is the core scheduling and appointment-lifecycle API.
// It sits behind whatever transport the application chooses.
type SchedulingService interface {
	GetDaySchedule(ctx context.Context, stylistID, date, sessionID string) (*models.DaySchedule, error)
	ComputeBookableSlots(ctx context.Context, stylistID, date, serviceID, sessionID string) ([]models.BookableSlot, error)
	PlaceHold(ctx context.Context, serviceID, stylistID, date string, start int, sessionID string) (string, error)
	ReleaseHold(holdID string)
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*models.Appointment, error)
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id, reason string) error
	MarkNoShow(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id, newDate string, newStart int, newStylistID string) (*models.Appointment, error)
}

// Engine is the production scheduling engine. All occupancy mutations for a
// (stylist, date) partition run under that partition's lock, making hold
// placement, appointment creation and status changes linearizable within
// the partition. Different stylists and days proceed in parallel.
type Engine struct {
	Appointments appointmentRepo.AppointmentRepository
	Staff        staffRepo.StaffRepository
	Holds        *HoldManager
	Granularity  int // slot width in minutes

	// Optional collaborators; nil disables the feature.
	TaskClient      *asynq.Client
	Notifier        notification.NotificationService
	ReminderLeadMin int

	partitions partitionLocks
}

var _ SchedulingService = (*Engine)(nil)

// partitionLocks hands out one mutex per (stylist, date) partition.
type partitionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *partitionLocks) get(key string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	lock, exists := p.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	return lock
}
