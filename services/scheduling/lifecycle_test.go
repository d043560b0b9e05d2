package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appointmentRepo "salonflow/database/repository/appointment"
	"salonflow/models"
)

// fakeStaffRepo serves a fixed catalog and schedule from memory.
type fakeStaffRepo struct {
	hours    map[string]*models.WorkingHours
	services map[string]*models.SalonService
}

func (f *fakeStaffRepo) GetStylist(ctx context.Context, stylistID string) (*models.Stylist, error) {
	return &models.Stylist{ID: stylistID, Name: "Test Stylist", Active: true}, nil
}

func (f *fakeStaffRepo) GetWorkingHours(ctx context.Context, stylistID string) (*models.WorkingHours, error) {
	h, ok := f.hours[stylistID]
	if !ok {
		return nil, errors.New("working hours not found")
	}
	return h, nil
}

func (f *fakeStaffRepo) SetWorkingHours(ctx context.Context, hours *models.WorkingHours) error {
	f.hours[hours.StylistID] = hours
	return nil
}

func (f *fakeStaffRepo) GetService(ctx context.Context, serviceID string) (*models.SalonService, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, errors.New("service not found")
	}
	return s, nil
}

func (f *fakeStaffRepo) ListServices(ctx context.Context) ([]models.SalonService, error) {
	var out []models.SalonService
	for _, s := range f.services {
		out = append(out, *s)
	}
	return out, nil
}

// fakeApptRepo keeps appointments in a map with the same compare-and-set
// update semantics as the mongo implementation.
type fakeApptRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appts: make(map[string]*models.Appointment)}
}

func (f *fakeApptRepo) Create(ctx context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *appt
	f.appts[appt.ID] = &cp
	return nil
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApptRepo) GetByPublicToken(ctx context.Context, token string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appts {
		if a.PublicToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (f *fakeApptRepo) ListByStylistAndDate(ctx context.Context, stylistID, date string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.StylistID == stylistID && a.Date == date {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, cancellationReason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok || a.Status != from {
		return appointmentRepo.ErrStaleStatus
	}
	a.Status = to
	if cancellationReason != "" {
		a.CancellationReason = cancellationReason
	}
	a.LastModified = time.Now()
	return nil
}

func (f *fakeApptRepo) CloseOutRescheduled(ctx context.Context, oldID string, successor *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.appts[oldID]
	if !ok || (old.Status != models.StatusScheduled && old.Status != models.StatusConfirmed) {
		return appointmentRepo.ErrStaleStatus
	}
	old.Status = models.StatusRescheduled
	old.RescheduledTo = successor.ID
	old.LastModified = time.Now()
	cp := *successor
	f.appts[successor.ID] = &cp
	return nil
}

func (f *fakeApptRepo) EnsureIndexes() error { return nil }

const (
	testStylist = "sty-1"
	testDate    = "2026-03-09"
	testService = "svc-cut"
)

// newTestEngine builds an engine over in-memory stores with a 09:00 - 12:00
// schedule every day and a single 60-minute service.
func newTestEngine() (*Engine, *fakeApptRepo) {
	days := make(map[time.Weekday]models.DayHours)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[wd] = models.DayHours{IsWorking: true, Start: 540, End: 720}
	}
	staff := &fakeStaffRepo{
		hours: map[string]*models.WorkingHours{
			testStylist: {StylistID: testStylist, Days: days},
			"sty-2":     {StylistID: "sty-2", Days: days},
		},
		services: map[string]*models.SalonService{
			testService: {ID: testService, Name: "Haircut", DurationMin: 60},
		},
	}
	repo := newFakeApptRepo()
	return &Engine{
		Appointments: repo,
		Staff:        staff,
		Holds:        NewHoldManager(10 * time.Minute),
		Granularity:  15,
	}, repo
}

func createReq(start int, sessionID string) CreateAppointmentRequest {
	return CreateAppointmentRequest{
		ClientID:  "client-1",
		ServiceID: testService,
		StylistID: testStylist,
		Date:      testDate,
		Start:     start,
		SessionID: sessionID,
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	e, repo := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if appt.Status != models.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", appt.Status)
	}
	if appt.End != 660 {
		t.Fatalf("expected end 660, got %d", appt.End)
	}
	if appt.PublicToken == "" || appt.ModificationToken == "" {
		t.Fatal("client access tokens should be set")
	}

	stored, err := repo.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("appointment not persisted: %v", err)
	}
	if stored.Start != 600 || stored.Status != models.StatusScheduled {
		t.Fatalf("persisted record mismatch: %+v", stored)
	}
}

func TestCreateAppointment_ConflictWithExisting(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-a")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// Any start whose 60-minute run overlaps [600, 660) must be rejected.
	for _, start := range []int{600, 615, 630, 645, 555} {
		if _, err := e.CreateAppointment(ctx, createReq(start, "sess-b")); !IsSlotConflict(err) {
			t.Fatalf("start %d: expected slot conflict, got %v", start, err)
		}
	}
	// Adjacent runs are fine.
	if _, err := e.CreateAppointment(ctx, createReq(660, "sess-b")); err != nil {
		t.Fatalf("adjacent create failed: %v", err)
	}
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// 11:15 + 60 minutes runs past noon closing.
	if _, err := e.CreateAppointment(ctx, createReq(675, "sess-a")); !IsSlotConflict(err) {
		t.Fatalf("expected slot conflict past closing, got %v", err)
	}
	if _, err := e.CreateAppointment(ctx, createReq(480, "sess-a")); !IsSlotConflict(err) {
		t.Fatalf("expected slot conflict before opening, got %v", err)
	}
}

func TestHoldThenConfirmRace(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// Session A holds 10:00; session B cannot hold or book it.
	holdA, err := e.PlaceHold(ctx, testService, testStylist, testDate, 600, "sess-a")
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if _, err := e.PlaceHold(ctx, testService, testStylist, testDate, 600, "sess-b"); !IsSlotConflict(err) {
		t.Fatalf("expected conflict for second hold, got %v", err)
	}
	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-b")); !IsSlotConflict(err) {
		t.Fatalf("expected conflict for booking over a foreign hold, got %v", err)
	}

	// A converts its hold; the interval is now hard-booked.
	reqA := createReq(600, "sess-a")
	reqA.HoldID = holdA
	if _, err := e.CreateAppointment(ctx, reqA); err != nil {
		t.Fatalf("create from hold failed: %v", err)
	}
	if _, ok := e.Holds.Get(holdA); ok {
		t.Fatal("hold should be released after conversion")
	}
	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-b")); !IsSlotConflict(err) {
		t.Fatalf("expected conflict against the booked interval, got %v", err)
	}
}

func TestCreateAppointment_ReleasesHoldOnFailure(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-a")); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	holdB, err := e.PlaceHold(ctx, testService, testStylist, testDate, 660, "sess-b")
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	// B submits a different, now-conflicting start. The attempt fails and
	// the hold is released anyway.
	reqB := createReq(630, "sess-b")
	reqB.HoldID = holdB
	if _, err := e.CreateAppointment(ctx, reqB); !IsSlotConflict(err) {
		t.Fatalf("expected slot conflict, got %v", err)
	}
	if _, ok := e.Holds.Get(holdB); ok {
		t.Fatal("hold should be released even when the booking fails")
	}
}

func TestTransitions(t *testing.T) {
	e, repo := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := e.Confirm(ctx, appt.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if err := e.Confirm(ctx, appt.ID); !IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition for repeat confirm, got %v", err)
	}
	if err := e.Complete(ctx, appt.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	for name, fn := range map[string]func() error{
		"cancel":  func() error { return e.Cancel(ctx, appt.ID, "x") },
		"no-show": func() error { return e.MarkNoShow(ctx, appt.ID) },
		"confirm": func() error { return e.Confirm(ctx, appt.ID) },
	} {
		if err := fn(); !IsInvalidTransition(err) {
			t.Fatalf("%s after completion: expected invalid transition, got %v", name, err)
		}
	}

	stored, _ := repo.GetByID(ctx, appt.ID)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}

	if err := e.Confirm(ctx, "no-such-id"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelFreesInterval(t *testing.T) {
	e, repo := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := e.Cancel(ctx, appt.ID, "client request"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored, _ := repo.GetByID(ctx, appt.ID)
	if stored.Status != models.StatusCancelled || stored.CancellationReason != "client request" {
		t.Fatalf("cancellation not recorded: %+v", stored)
	}

	// The interval is bookable again; the record stays for history.
	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-b")); err != nil {
		t.Fatalf("rebooking a cancelled interval failed: %v", err)
	}
}

func TestReschedule_SameDayOverlapWithSelf(t *testing.T) {
	e, repo := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Moving 10:00 -> 10:30 overlaps the record's own old interval; the
	// record being moved must not block its own target.
	successor, err := e.Reschedule(ctx, appt.ID, testDate, 630, "")
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if successor.Start != 630 || successor.End != 690 {
		t.Fatalf("successor interval wrong: [%d, %d)", successor.Start, successor.End)
	}
	if successor.PublicToken != appt.PublicToken || successor.ModificationToken != appt.ModificationToken {
		t.Fatal("client access tokens should carry over to the successor")
	}

	old, _ := repo.GetByID(ctx, appt.ID)
	if old.Status != models.StatusRescheduled {
		t.Fatalf("old record should be rescheduled, got %s", old.Status)
	}
	if old.RescheduledTo != successor.ID {
		t.Fatal("old record should link its successor")
	}

	// The vacated 10:00 - 10:30 stretch alone cannot fit 60 minutes, but
	// nothing before 09:30 conflicts.
	if _, err := e.CreateAppointment(ctx, createReq(540, "sess-b")); err != nil {
		t.Fatalf("booking before the moved interval failed: %v", err)
	}
}

func TestReschedule_ToDifferentStylist(t *testing.T) {
	e, repo := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	successor, err := e.Reschedule(ctx, appt.ID, testDate, 600, "sty-2")
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if successor.StylistID != "sty-2" {
		t.Fatalf("expected successor on sty-2, got %s", successor.StylistID)
	}

	// The original stylist's interval is free again.
	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-b")); err != nil {
		t.Fatalf("original interval should be free: %v", err)
	}

	old, _ := repo.GetByID(ctx, appt.ID)
	if old.Status != models.StatusRescheduled {
		t.Fatalf("old record should be rescheduled, got %s", old.Status)
	}
}

func TestReschedule_TargetConflict(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(540, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := e.CreateAppointment(ctx, createReq(660, "sess-b")); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if _, err := e.Reschedule(ctx, appt.ID, testDate, 660, ""); !IsSlotConflict(err) {
		t.Fatalf("expected slot conflict at the occupied target, got %v", err)
	}
	// Failure leaves the original untouched and still blocking.
	if _, err := e.CreateAppointment(ctx, createReq(540, "sess-c")); !IsSlotConflict(err) {
		t.Fatalf("original interval should still be booked, got %v", err)
	}
}

func TestReschedule_TerminalStatus(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := e.Cancel(ctx, appt.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := e.Reschedule(ctx, appt.ID, testDate, 630, ""); !IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition for cancelled appointment, got %v", err)
	}
}

// faultyApptRepo injects storage failures on top of the in-memory fake.
type faultyApptRepo struct {
	*fakeApptRepo
	getErr    error
	updateErr error
	closeErr  error
}

func (f *faultyApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.fakeApptRepo.GetByID(ctx, id)
}

func (f *faultyApptRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, reason string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.fakeApptRepo.UpdateStatus(ctx, id, from, to, reason)
}

func (f *faultyApptRepo) CloseOutRescheduled(ctx context.Context, oldID string, successor *models.Appointment) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	return f.fakeApptRepo.CloseOutRescheduled(ctx, oldID, successor)
}

func TestTransition_StorageFaultIsNotClientFault(t *testing.T) {
	e, repo := newTestEngine()
	faulty := &faultyApptRepo{fakeApptRepo: repo}
	e.Appointments = faulty
	ctx := context.Background()

	appt, err := e.CreateAppointment(ctx, createReq(600, "sess-a"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	outage := errors.New("server selection timeout: no reachable servers")

	faulty.updateErr = outage
	err = e.Confirm(ctx, appt.ID)
	if err == nil {
		t.Fatal("expected an error from the failing store")
	}
	if IsInvalidTransition(err) || IsNotFound(err) {
		t.Fatalf("storage fault misreported as a scheduling error: %v", err)
	}
	if !errors.Is(err, outage) {
		t.Fatalf("storage fault should be wrapped, got %v", err)
	}
	faulty.updateErr = nil

	faulty.getErr = outage
	if err := e.Confirm(ctx, appt.ID); err == nil || IsNotFound(err) {
		t.Fatalf("lookup outage misreported as not found: %v", err)
	}
	if _, err := e.Reschedule(ctx, appt.ID, testDate, 630, ""); err == nil || IsNotFound(err) {
		t.Fatalf("reschedule lookup outage misreported as not found: %v", err)
	}
	faulty.getErr = nil

	faulty.closeErr = outage
	if _, err := e.Reschedule(ctx, appt.ID, testDate, 630, ""); err == nil || IsInvalidTransition(err) {
		t.Fatalf("reschedule storage fault misreported as invalid transition: %v", err)
	}
	faulty.closeErr = nil

	// The condition-based outcomes still map to their scheduling errors.
	if err := e.Confirm(ctx, "no-such-id"); !IsNotFound(err) {
		t.Fatalf("expected not found for a missing record, got %v", err)
	}
	faulty.updateErr = appointmentRepo.ErrStaleStatus
	if err := e.Confirm(ctx, appt.ID); !IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition for a stale status, got %v", err)
	}
}

func TestGetDaySchedule_MarksOccupiedSlots(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.CreateAppointment(ctx, createReq(600, "sess-a")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sched, err := e.GetDaySchedule(ctx, testStylist, testDate, "sess-b")
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if len(sched.Slots) != 12 {
		t.Fatalf("expected 12 slots for 09:00 - 12:00 at 15 min, got %d", len(sched.Slots))
	}
	for _, s := range sched.Slots {
		occupied := s.Start >= 600 && s.Start < 660
		if s.Available == occupied {
			t.Fatalf("slot %d: available=%v, want %v", s.Start, s.Available, !occupied)
		}
	}
}
