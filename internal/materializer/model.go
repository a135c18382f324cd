package materializer

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

// Options control horizon computation and day filtering.
type Options struct {
	// Cycles overrides how many times the pattern is replicated. Zero or
	// negative means "derive from HorizonDays" for recurring rosters and a
	// single cycle otherwise.
	Cycles int
	// HorizonDays is the default activation horizon for recurring rosters
	// when Cycles is not given. Zero falls back to one calendar year.
	HorizonDays int
	// WorkingDaysOnly restricts the pattern day sequence to Monday-Friday.
	WorkingDaysOnly bool
}

// Horizon is the concrete date range an activation covers. The replace in
// the store deletes exactly within these bounds.
type Horizon struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Cycles int       `json:"cycles"`
}

func (h Horizon) Contains(day time.Time) bool {
	return !day.Before(h.Start) && !day.After(h.End)
}

// Result is everything the caller needs to perform the replace: the new
// entries, the bounds and people of the delete filter, and the batch key
// that ties the written rows back to this activation.
type Result struct {
	Entries         []*domain.ScheduleEntry
	Horizon         Horizon
	AffectedUserIDs []int64
	BatchID         string
}

// assignmentKey addresses one pattern cell; day is -1 for whole-week rows.
type assignmentKey struct {
	week   int32
	userID int64
	day    int32
}
