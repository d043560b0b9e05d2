package scheduling

import (
	"salonflow/models"
)

// GenerateSlots partitions one working day into consecutive granularity-wide
// slots. Slots overlapping a break are emitted with Available false. A day
// off yields no slots. The function is deterministic and side-effect-free.
// Malformed working hours fail with an invalid schedule error even when they
// were validated at configuration time.
func GenerateSlots(day models.DayHours, granularity int) ([]models.TimeSlot, error) {
	if granularity <= 0 {
		return nil, NewInvalidScheduleError("granularity must be positive, got %d", granularity)
	}
	if !day.IsWorking {
		return nil, nil
	}
	if err := day.Validate(); err != nil {
		return nil, NewInvalidScheduleError("%v", err)
	}

	var slots []models.TimeSlot
	for start := day.Start; start+granularity <= day.End; start += granularity {
		end := start + granularity
		slots = append(slots, models.TimeSlot{
			Start:     start,
			End:       end,
			Available: !overlapsBreak(day.Breaks, start, end),
		})
	}
	return slots, nil
}

// overlapsBreak uses half-open interval semantics: a slot ending exactly
// when a break starts does not overlap it.
func overlapsBreak(breaks []models.BreakWindow, start, end int) bool {
	for _, b := range breaks {
		if b.Start < end && start < b.End {
			return true
		}
	}
	return false
}
