package scheduling

import (
	"fmt"
	"sync"
	"time"

	"salonflow/models"
	"salonflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldRequest describes the interval a session wants to pre-book.
type HoldRequest struct {
	StylistID string
	Date      string
	Start     int // minutes from midnight
	End       int // minutes from midnight
}

// HoldManager tracks transient pre-bookings in memory, keyed by the
// (stylist, date) partition. Holds are finite-lived; the only way to extend
// one is to replace it, which mints a fresh expiry.
type HoldManager struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	byID        map[string]*models.Hold
	byPartition map[string][]*models.Hold
}

// NewHoldManager creates a manager issuing holds with the given TTL.
func NewHoldManager(ttl time.Duration) *HoldManager {
	return &HoldManager{
		ttl:         ttl,
		now:         time.Now,
		byID:        make(map[string]*models.Hold),
		byPartition: make(map[string][]*models.Hold),
	}
}

func partitionKey(stylistID, date string) string {
	return fmt.Sprintf("%s|%s", stylistID, date)
}

// AddPreBooking registers a hold for the caller's session. A live hold from
// a different session over an overlapping interval rejects the request; the
// caller's own overlapping holds are replaced, so changing any selection in
// the booking form never leaves a stale hold behind.
func (m *HoldManager) AddPreBooking(req HoldRequest, sessionID string) (string, error) {
	if req.Start >= req.End {
		return "", NewInvalidScheduleError("hold start %d is not before end %d", req.Start, req.End)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := partitionKey(req.StylistID, req.Date)

	// Drop expired entries for the partition before looking at conflicts.
	var live []*models.Hold
	for _, h := range m.byPartition[key] {
		if h.Live(now) {
			live = append(live, h)
		} else {
			delete(m.byID, h.ID)
		}
	}
	m.byPartition[key] = live

	for _, h := range live {
		if h.Overlaps(req.Start, req.End) && h.SessionID != sessionID {
			return "", NewSlotConflictError("interval [%d, %d) on %s is held by another session", req.Start, req.End, req.Date)
		}
	}

	// Replace the session's own overlapping selection(s).
	var kept []*models.Hold
	for _, h := range live {
		if h.Overlaps(req.Start, req.End) && h.SessionID == sessionID {
			delete(m.byID, h.ID)
			continue
		}
		kept = append(kept, h)
	}
	m.byPartition[key] = kept

	hold := &models.Hold{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		StylistID: req.StylistID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.byID[hold.ID] = hold
	m.byPartition[key] = append(m.byPartition[key], hold)

	utils.GetLogger().Debug("pre-booking created",
		zap.String("holdId", hold.ID),
		zap.String("stylistId", req.StylistID),
		zap.String("date", req.Date),
		zap.Int("start", req.Start),
		zap.Int("end", req.End),
		zap.Time("expiresAt", hold.ExpiresAt))

	return hold.ID, nil
}

// RemovePreBooking releases a hold. Removing an unknown or already-expired
// hold is a no-op, never an error.
func (m *HoldManager) RemovePreBooking(holdID string) {
	if holdID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hold, ok := m.byID[holdID]
	if !ok {
		utils.GetLogger().Debug("pre-booking release miss",
			zap.String("holdId", holdID),
			zap.Error(NewHoldNotFoundError("hold %s not found", holdID)))
		return
	}
	delete(m.byID, holdID)
	m.removeFromPartition(hold)

	utils.GetLogger().Debug("pre-booking released", zap.String("holdId", holdID))
}

// CleanupExpiredPreBookings removes every hold whose expiry has passed and
// returns the number removed. Intended to run on a recurring timer so that
// abandoned form sessions release their slot without explicit cancellation.
func (m *HoldManager) CleanupExpiredPreBookings() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, hold := range m.byID {
		if hold.Live(now) {
			continue
		}
		delete(m.byID, id)
		m.removeFromPartition(hold)
		removed++
	}

	if removed > 0 {
		utils.GetLogger().Info("expired pre-bookings swept", zap.Int("removed", removed))
	}
	return removed
}

// LiveHolds returns a snapshot of the unexpired holds for one partition.
// Expired entries are skipped even before the next sweep runs.
func (m *HoldManager) LiveHolds(stylistID, date string) []models.Hold {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var live []models.Hold
	for _, h := range m.byPartition[partitionKey(stylistID, date)] {
		if h.Live(now) {
			live = append(live, *h)
		}
	}
	return live
}

// Get returns a copy of a live hold.
func (m *HoldManager) Get(holdID string) (models.Hold, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hold, ok := m.byID[holdID]
	if !ok || !hold.Live(m.now()) {
		return models.Hold{}, false
	}
	return *hold, true
}

// removeFromPartition must be called with the manager lock held.
func (m *HoldManager) removeFromPartition(hold *models.Hold) {
	key := partitionKey(hold.StylistID, hold.Date)
	holds := m.byPartition[key]
	for i, h := range holds {
		if h.ID == hold.ID {
			m.byPartition[key] = append(holds[:i], holds[i+1:]...)
			break
		}
	}
	if len(m.byPartition[key]) == 0 {
		delete(m.byPartition, key)
	}
}
