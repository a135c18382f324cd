package materializer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/teambition/rrule-go"
)

// Materializer expands one roster's compact pattern into concrete schedule
// entries. It is constructed from pre-fetched rows and performs no store
// access of its own; the caller owns fetching and persisting.
type Materializer struct {
	roster      *domain.RotationRoster
	members     []*domain.PartnershipMember
	definitions []*domain.ShiftDefinition
	options     Options

	assignments map[assignmentKey]*domain.WeekAssignment
	holidays    map[string][]*domain.Holiday // "2006-01-02" -> holidays on that date
}

const dateLayout = "2006-01-02"

func New(
	roster *domain.RotationRoster,
	assignments []*domain.WeekAssignment,
	members []*domain.PartnershipMember,
	holidays []*domain.Holiday,
	definitions []*domain.ShiftDefinition,
	options Options,
) (*Materializer, error) {
	if roster.CycleLengthWeeks < 1 || roster.CycleLengthWeeks > 52 {
		return nil, domain.NewValidationError("cycle length must be between 1 and 52 weeks, got %d", roster.CycleLengthWeeks)
	}
	if roster.StartDate.IsZero() {
		return nil, domain.NewValidationError("roster has no start date")
	}

	m := &Materializer{
		roster:      roster,
		members:     members,
		definitions: definitions,
		options:     options,
		assignments: make(map[assignmentKey]*domain.WeekAssignment),
		holidays:    make(map[string][]*domain.Holiday),
	}

	for _, a := range assignments {
		if a.Week < 1 || a.Week > roster.CycleLengthWeeks {
			return nil, domain.NewValidationError("assignment %d has week %d outside the cycle", a.ID, a.Week)
		}
		day := int32(-1)
		if a.DayOfWeek != nil {
			if *a.DayOfWeek < 0 || *a.DayOfWeek > 6 {
				return nil, domain.NewValidationError("assignment %d has day of week %d outside 0-6", a.ID, *a.DayOfWeek)
			}
			day = *a.DayOfWeek
		}
		// the store enforces uniqueness on this key; last row wins here
		m.assignments[assignmentKey{week: a.Week, userID: a.UserID, day: day}] = a
	}

	for _, h := range holidays {
		key := h.Date.Format(dateLayout)
		m.holidays[key] = append(m.holidays[key], h)
	}

	return m, nil
}

// Materialize runs the expansion and returns the rows to write together
// with the delete bounds. It never writes anything itself.
func (m *Materializer) Materialize() (*Result, error) {
	horizon := m.computeHorizon()

	patternDays, err := m.patternDaySequence()
	if err != nil {
		return nil, &domain.MaterializationError{Stage: "pattern expansion", Err: err}
	}

	result := &Result{
		Horizon: horizon,
		BatchID: uuid.NewString(),
	}

	cycleDays := int(m.roster.CycleLengthWeeks) * 7
	seen := make(map[assignmentKey]bool) // key reused with day as date ordinal guard
	affected := make(map[int64]bool)

	for replica := 0; replica < horizon.Cycles; replica++ {
		offset := replica * cycleDays

		for _, day := range patternDays {
			scheduledDate := day.AddDate(0, 0, offset)
			week := int32(daysBetween(m.roster.StartDate, day)/7) + 1
			weekday := int32(scheduledDate.Weekday())

			for _, member := range m.members {
				assignment := m.lookupAssignment(week, member.UserID, weekday)
				if assignment == nil || assignment.ShiftKind == nil {
					continue
				}
				kind := *assignment.ShiftKind
				if kind == domain.ShiftKindOff {
					continue
				}
				if assignment.DayOfWeek == nil && !coversWeekday(kind, weekday, assignment.IncludeWeekends) {
					continue
				}
				if m.isHolidayFor(scheduledDate, member) {
					continue
				}

				dupKey := assignmentKey{week: 0, userID: member.UserID, day: int32(daysBetween(m.roster.StartDate, scheduledDate))}
				if seen[dupKey] {
					continue
				}
				seen[dupKey] = true
				affected[member.UserID] = true

				startTime, endTime := m.resolveShiftTimes(kind, member, assignment.TeamID)
				rosterID := m.roster.ID

				result.Entries = append(result.Entries, &domain.ScheduleEntry{
					UserID:         member.UserID,
					TeamID:         assignment.TeamID,
					Date:           scheduledDate,
					Kind:           domain.EntryKindWork,
					ShiftKind:      kind,
					StartTime:      startTime,
					EndTime:        endTime,
					Note:           fmt.Sprintf("roster %q, week %d", m.roster.Name, week),
					SourceRosterID: &rosterID,
					BatchID:        &result.BatchID,
				})
			}
		}
	}

	for userID := range affected {
		result.AffectedUserIDs = append(result.AffectedUserIDs, userID)
	}
	sort.Slice(result.AffectedUserIDs, func(i, j int) bool {
		return result.AffectedUserIDs[i] < result.AffectedUserIDs[j]
	})
	sort.Slice(result.Entries, func(i, j int) bool {
		if !result.Entries[i].Date.Equal(result.Entries[j].Date) {
			return result.Entries[i].Date.Before(result.Entries[j].Date)
		}
		return result.Entries[i].UserID < result.Entries[j].UserID
	})

	return result, nil
}

func (m *Materializer) computeHorizon() Horizon {
	return ComputeHorizon(m.roster, m.options)
}

// ComputeHorizon resolves how far the pattern is replicated. Non-recurring
// rosters cover exactly one cycle; recurring rosters default to the
// smallest whole number of cycles covering one calendar year. It is
// exported so callers can size their holiday fetch before constructing a
// Materializer.
func ComputeHorizon(roster *domain.RotationRoster, options Options) Horizon {
	cycleDays := int(roster.CycleLengthWeeks) * 7

	cycles := 1
	if roster.Recurring {
		if options.Cycles > 0 {
			cycles = options.Cycles
		} else {
			horizonDays := options.HorizonDays
			if horizonDays <= 0 {
				horizonDays = 365
			}
			cycles = (horizonDays + cycleDays - 1) / cycleDays
		}
	}

	start := dateOnly(roster.StartDate)
	return Horizon{
		Start:  start,
		End:    start.AddDate(0, 0, cycles*cycleDays-1),
		Cycles: cycles,
	}
}

// patternDaySequence enumerates every calendar day of the first cycle as a
// daily recurrence, optionally restricted to working days.
func (m *Materializer) patternDaySequence() ([]time.Time, error) {
	start := dateOnly(m.roster.StartDate)
	until := start.AddDate(0, 0, int(m.roster.CycleLengthWeeks)*7-1)

	ropt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   until,
	}
	if m.options.WorkingDaysOnly {
		ropt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	}

	rule, err := rrule.NewRRule(ropt)
	if err != nil {
		return nil, err
	}

	return rule.All(), nil
}

// lookupAssignment prefers a day-granular row over the whole-week row for
// the same (week, person).
func (m *Materializer) lookupAssignment(week int32, userID int64, weekday int32) *domain.WeekAssignment {
	if a, ok := m.assignments[assignmentKey{week: week, userID: userID, day: weekday}]; ok {
		return a
	}
	return m.assignments[assignmentKey{week: week, userID: userID, day: -1}]
}

func (m *Materializer) isHolidayFor(day time.Time, member *domain.PartnershipMember) bool {
	for _, h := range m.holidays[day.Format(dateLayout)] {
		if h.AppliesTo(member.CountryCode, member.RegionCode) {
			return true
		}
	}
	return false
}

// resolveShiftTimes picks the concrete start/end for a shift kind: a catalog
// entry scoped to the person's country/region wins over an unscoped entry,
// which wins over the kind's intrinsic times. Within each tier a definition
// for the assignment's team beats a catalog-wide one.
func (m *Materializer) resolveShiftTimes(kind domain.ShiftKind, member *domain.PartnershipMember, teamID int64) (string, string) {
	var locScoped, unscoped *domain.ShiftDefinition

	for _, def := range m.definitions {
		if def.Kind != kind {
			continue
		}
		if def.TeamID != nil && *def.TeamID != teamID {
			continue
		}
		if len(def.CountryCodes) == 0 {
			if unscoped == nil || moreSpecific(def, unscoped) {
				unscoped = def
			}
			continue
		}
		if def.MatchesLocation(member.CountryCode, member.RegionCode) {
			if locScoped == nil || moreSpecific(def, locScoped) {
				locScoped = def
			}
		}
	}

	switch {
	case locScoped != nil:
		return locScoped.StartTime, locScoped.EndTime
	case unscoped != nil:
		return unscoped.StartTime, unscoped.EndTime
	}

	times := domain.IntrinsicShiftTimes[kind]
	return times[0], times[1]
}

// moreSpecific prefers team-scoped definitions within the same tier.
func moreSpecific(a, b *domain.ShiftDefinition) bool {
	return a.TeamID != nil && b.TeamID == nil
}

// coversWeekday resolves whole-week assignments: weekday-only kinds reach
// Saturday/Sunday only via IncludeWeekends, and the weekend kind never
// covers Monday-Friday.
func coversWeekday(kind domain.ShiftKind, weekday int32, includeWeekends bool) bool {
	isWeekend := weekday == int32(time.Saturday) || weekday == int32(time.Sunday)

	if kind == domain.ShiftKindWeekend {
		return isWeekend
	}
	if kind.WeekdayOnly() && isWeekend {
		return includeWeekends
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}
