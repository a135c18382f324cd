package utils

import (
	"testing"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateShiftTimes(t *testing.T) {
	assert.NoError(t, ValidateShiftTimes("09:00:00", "17:30:00"))
	assert.Error(t, ValidateShiftTimes("9am", "17:30:00"))
	assert.Error(t, ValidateShiftTimes("09:00:00", "bad"))
	assert.Error(t, ValidateShiftTimes("17:30:00", "09:00:00"))
	assert.Error(t, ValidateShiftTimes("09:00:00", "09:00:00"))
}

func TestValidateWeekAssignment(t *testing.T) {
	roster := &domain.RotationRoster{
		ID:               1,
		CycleLengthWeeks: 2,
		StartDate:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	early := domain.ShiftKindEarly
	day := int32(3)

	t.Run("valid whole-week cell", func(t *testing.T) {
		a := &domain.WeekAssignment{Week: 1, ShiftKind: &early, IncludeWeekends: true}
		assert.NoError(t, ValidateWeekAssignment(roster, a))
	})

	t.Run("valid day cell", func(t *testing.T) {
		a := &domain.WeekAssignment{Week: 2, DayOfWeek: &day, ShiftKind: &early}
		assert.NoError(t, ValidateWeekAssignment(roster, a))
	})

	t.Run("week outside the cycle", func(t *testing.T) {
		a := &domain.WeekAssignment{Week: 3, ShiftKind: &early}
		assert.Error(t, ValidateWeekAssignment(roster, a))
	})

	t.Run("day outside 0-6", func(t *testing.T) {
		bad := int32(7)
		a := &domain.WeekAssignment{Week: 1, DayOfWeek: &bad, ShiftKind: &early}
		assert.Error(t, ValidateWeekAssignment(roster, a))
	})

	t.Run("unknown shift kind", func(t *testing.T) {
		bogus := domain.ShiftKind("night")
		a := &domain.WeekAssignment{Week: 1, ShiftKind: &bogus}
		assert.Error(t, ValidateWeekAssignment(roster, a))
	})

	t.Run("includeWeekends on a day cell", func(t *testing.T) {
		a := &domain.WeekAssignment{Week: 1, DayOfWeek: &day, ShiftKind: &early, IncludeWeekends: true}
		assert.Error(t, ValidateWeekAssignment(roster, a))
	})
}
