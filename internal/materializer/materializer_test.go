package materializer

import (
	"testing"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-05 is a Monday.
var mondayStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func testRoster(cycleWeeks int32, recurring bool) *domain.RotationRoster {
	return &domain.RotationRoster{
		ID:               1,
		PartnershipID:    1,
		Name:             "Frontline rotation",
		CycleLengthWeeks: cycleWeeks,
		StartDate:        mondayStart,
		State:            domain.RosterStateApproved,
		Recurring:        recurring,
	}
}

func member(userID, teamID int64, countryCode string, regionCode *string) *domain.PartnershipMember {
	return &domain.PartnershipMember{
		UserID:      userID,
		TeamID:      teamID,
		FullName:    "Member",
		CountryCode: countryCode,
		RegionCode:  regionCode,
	}
}

func wholeWeek(week int32, userID, teamID int64, kind domain.ShiftKind, includeWeekends bool) *domain.WeekAssignment {
	return &domain.WeekAssignment{
		RosterID:        1,
		Week:            week,
		TeamID:          teamID,
		UserID:          userID,
		ShiftKind:       &kind,
		IncludeWeekends: includeWeekends,
	}
}

func dayAssignment(week int32, userID, teamID int64, dayOfWeek int32, kind domain.ShiftKind) *domain.WeekAssignment {
	return &domain.WeekAssignment{
		RosterID:  1,
		Week:      week,
		TeamID:    teamID,
		UserID:    userID,
		DayOfWeek: &dayOfWeek,
		ShiftKind: &kind,
	}
}

func TestMaterializeWeekdayOnlyKindSkipsWeekend(t *testing.T) {
	roster := testRoster(2, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, false)}

	m, err := New(roster, assignments, members, nil, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	// week 1 Monday-Friday only, week 2 has no assignment at all
	require.Len(t, result.Entries, 5)
	for i, entry := range result.Entries {
		assert.Equal(t, mondayStart.AddDate(0, 0, i), entry.Date)
		assert.Equal(t, domain.EntryKindWork, entry.Kind)
		assert.Equal(t, domain.ShiftKindEarly, entry.ShiftKind)
		assert.Equal(t, "06:00:00", entry.StartTime)
		assert.Equal(t, "14:00:00", entry.EndTime)
		require.NotNil(t, entry.SourceRosterID)
		assert.Equal(t, roster.ID, *entry.SourceRosterID)
		require.NotNil(t, entry.BatchID)
		assert.Equal(t, result.BatchID, *entry.BatchID)
	}
	assert.Equal(t, []int64{10}, result.AffectedUserIDs)
}

func TestMaterializeIncludeWeekends(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, true)}

	m, err := New(roster, assignments, members, nil, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	assert.Len(t, result.Entries, 7)
}

func TestMaterializeWeekendKindOnlyCoversSaturdaySunday(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindWeekend, false)}

	m, err := New(roster, assignments, members, nil, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, time.Saturday, result.Entries[0].Date.Weekday())
	assert.Equal(t, time.Sunday, result.Entries[1].Date.Weekday())
}

func TestMaterializeOffKindProducesNothing(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindOff, false)}

	m, err := New(roster, assignments, members, nil, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	assert.Empty(t, result.Entries)
	assert.Empty(t, result.AffectedUserIDs)
}

func TestMaterializeDayGranularOverridesWholeWeek(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	// Tuesday 2026-01-06 is weekday 2
	assignments := []*domain.WeekAssignment{
		wholeWeek(1, 10, 1, domain.ShiftKindEarly, false),
		dayAssignment(1, 10, 1, 2, domain.ShiftKindOff),
		dayAssignment(1, 10, 1, 3, domain.ShiftKindLate),
	}

	m, err := New(roster, assignments, members, nil, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	// Tuesday dropped, Wednesday flipped to late, the rest stays early
	require.Len(t, result.Entries, 4)
	kindsByDay := map[time.Weekday]domain.ShiftKind{}
	for _, entry := range result.Entries {
		kindsByDay[entry.Date.Weekday()] = entry.ShiftKind
	}
	assert.NotContains(t, kindsByDay, time.Tuesday)
	assert.Equal(t, domain.ShiftKindLate, kindsByDay[time.Wednesday])
	assert.Equal(t, domain.ShiftKindEarly, kindsByDay[time.Monday])
}

func TestMaterializeHolidayExclusionPerCountry(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{
		member(10, 1, "GB", nil),
		member(11, 1, "DE", nil),
	}
	assignments := []*domain.WeekAssignment{
		wholeWeek(1, 10, 1, domain.ShiftKindEarly, false),
		wholeWeek(1, 11, 1, domain.ShiftKindEarly, false),
	}
	holidays := []*domain.Holiday{
		{Name: "Some German holiday", Date: mondayStart, CountryCode: "DE"},
	}

	m, err := New(roster, assignments, members, holidays, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	perUser := map[int64]int{}
	for _, entry := range result.Entries {
		perUser[entry.UserID]++
	}
	assert.Equal(t, 5, perUser[10])
	assert.Equal(t, 4, perUser[11])
}

func TestMaterializeRegionScopedHoliday(t *testing.T) {
	bavaria := "BY"
	berlin := "BE"

	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{
		member(10, 1, "DE", &bavaria),
		member(11, 1, "DE", &berlin),
	}
	assignments := []*domain.WeekAssignment{
		wholeWeek(1, 10, 1, domain.ShiftKindEarly, false),
		wholeWeek(1, 11, 1, domain.ShiftKindEarly, false),
	}
	holidays := []*domain.Holiday{
		{Name: "Epiphany", Date: mondayStart, CountryCode: "DE", RegionCode: &bavaria},
	}

	m, err := New(roster, assignments, members, holidays, nil, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	perUser := map[int64]int{}
	for _, entry := range result.Entries {
		perUser[entry.UserID]++
	}
	assert.Equal(t, 4, perUser[10])
	assert.Equal(t, 5, perUser[11])
}

func TestMaterializeRecurringReplicatesCycles(t *testing.T) {
	roster := testRoster(2, true)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, false)}

	m, err := New(roster, assignments, members, nil, nil, Options{HorizonDays: 28})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Horizon.Cycles)
	assert.Equal(t, mondayStart, result.Horizon.Start)
	assert.Equal(t, mondayStart.AddDate(0, 0, 27), result.Horizon.End)

	// the week-1 pattern shows up once per replica
	require.Len(t, result.Entries, 10)
	assert.Equal(t, mondayStart, result.Entries[0].Date)
	assert.Equal(t, mondayStart.AddDate(0, 0, 14), result.Entries[5].Date)
}

func TestMaterializeCyclesOverride(t *testing.T) {
	roster := testRoster(2, true)

	horizon := ComputeHorizon(roster, Options{Cycles: 3})
	assert.Equal(t, 3, horizon.Cycles)
	assert.Equal(t, mondayStart.AddDate(0, 0, 3*14-1), horizon.End)
}

func TestComputeHorizonNonRecurringIsSingleCycle(t *testing.T) {
	roster := testRoster(4, false)

	horizon := ComputeHorizon(roster, Options{HorizonDays: 365, Cycles: 5})
	assert.Equal(t, 1, horizon.Cycles)
	assert.Equal(t, mondayStart.AddDate(0, 0, 27), horizon.End)
}

func TestComputeHorizonDefaultsToOneYear(t *testing.T) {
	roster := testRoster(2, true)

	horizon := ComputeHorizon(roster, Options{})
	// smallest whole number of 14-day cycles covering 365 days
	assert.Equal(t, 27, horizon.Cycles)
}

func TestMaterializeShiftTimeResolution(t *testing.T) {
	otherTeam := int64(2)

	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "DE", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, false)}
	definitions := []*domain.ShiftDefinition{
		// unscoped catalog-wide default
		{Kind: domain.ShiftKindEarly, StartTime: "07:00:00", EndTime: "15:00:00"},
		// location-scoped, should win
		{Kind: domain.ShiftKindEarly, StartTime: "05:30:00", EndTime: "13:30:00", CountryCodes: []string{"DE"}},
		// location-scoped but for another team, ignored
		{TeamID: &otherTeam, Kind: domain.ShiftKindEarly, StartTime: "04:00:00", EndTime: "12:00:00", CountryCodes: []string{"DE"}},
		// wrong kind, ignored
		{Kind: domain.ShiftKindLate, StartTime: "15:00:00", EndTime: "23:00:00", CountryCodes: []string{"DE"}},
	}

	m, err := New(roster, assignments, members, nil, definitions, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	require.NotEmpty(t, result.Entries)
	assert.Equal(t, "05:30:00", result.Entries[0].StartTime)
	assert.Equal(t, "13:30:00", result.Entries[0].EndTime)
}

func TestMaterializeTeamScopedDefinitionBeatsCatalogWide(t *testing.T) {
	teamID := int64(1)

	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "DE", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, false)}
	definitions := []*domain.ShiftDefinition{
		{Kind: domain.ShiftKindEarly, StartTime: "07:00:00", EndTime: "15:00:00", CountryCodes: []string{"DE"}},
		{TeamID: &teamID, Kind: domain.ShiftKindEarly, StartTime: "06:30:00", EndTime: "14:30:00", CountryCodes: []string{"DE"}},
	}

	m, err := New(roster, assignments, members, nil, definitions, Options{})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	require.NotEmpty(t, result.Entries)
	assert.Equal(t, "06:30:00", result.Entries[0].StartTime)
}

func TestMaterializeWorkingDaysOnly(t *testing.T) {
	roster := testRoster(1, false)
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}
	assignments := []*domain.WeekAssignment{wholeWeek(1, 10, 1, domain.ShiftKindEarly, true)}

	m, err := New(roster, assignments, members, nil, nil, Options{WorkingDaysOnly: true})
	require.NoError(t, err)

	result, err := m.Materialize()
	require.NoError(t, err)

	// includeWeekends is moot when the day sequence stops at Friday
	assert.Len(t, result.Entries, 5)
}

func TestMaterializeDeterministicApartFromBatchID(t *testing.T) {
	roster := testRoster(2, true)
	members := []*domain.PartnershipMember{
		member(11, 1, "GB", nil),
		member(10, 1, "DE", nil),
	}
	assignments := []*domain.WeekAssignment{
		wholeWeek(1, 10, 1, domain.ShiftKindEarly, false),
		wholeWeek(2, 11, 1, domain.ShiftKindLate, true),
	}

	run := func() *Result {
		m, err := New(roster, assignments, members, nil, nil, Options{HorizonDays: 28})
		require.NoError(t, err)
		result, err := m.Materialize()
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	assert.NotEqual(t, first.BatchID, second.BatchID)
	require.Equal(t, len(first.Entries), len(second.Entries))
	for i := range first.Entries {
		assert.Equal(t, first.Entries[i].Date, second.Entries[i].Date)
		assert.Equal(t, first.Entries[i].UserID, second.Entries[i].UserID)
		assert.Equal(t, first.Entries[i].ShiftKind, second.Entries[i].ShiftKind)
	}

	// sorted by date, then user id
	for i := 1; i < len(first.Entries); i++ {
		prev, curr := first.Entries[i-1], first.Entries[i]
		ok := prev.Date.Before(curr.Date) ||
			(prev.Date.Equal(curr.Date) && prev.UserID < curr.UserID)
		assert.True(t, ok, "entries out of order at %d", i)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	members := []*domain.PartnershipMember{member(10, 1, "GB", nil)}

	t.Run("cycle length out of range", func(t *testing.T) {
		roster := testRoster(0, false)
		_, err := New(roster, nil, members, nil, nil, Options{})
		assert.Error(t, err)

		roster = testRoster(53, false)
		_, err = New(roster, nil, members, nil, nil, Options{})
		assert.Error(t, err)
	})

	t.Run("missing start date", func(t *testing.T) {
		roster := testRoster(1, false)
		roster.StartDate = time.Time{}
		_, err := New(roster, nil, members, nil, nil, Options{})
		assert.Error(t, err)
	})

	t.Run("week outside the cycle", func(t *testing.T) {
		roster := testRoster(2, false)
		assignments := []*domain.WeekAssignment{wholeWeek(3, 10, 1, domain.ShiftKindEarly, false)}
		_, err := New(roster, assignments, members, nil, nil, Options{})
		assert.Error(t, err)
	})

	t.Run("day of week outside 0-6", func(t *testing.T) {
		roster := testRoster(1, false)
		assignments := []*domain.WeekAssignment{dayAssignment(1, 10, 1, 7, domain.ShiftKindEarly)}
		_, err := New(roster, assignments, members, nil, nil, Options{})
		assert.Error(t, err)
	})
}
