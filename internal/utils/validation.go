package utils

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

const timeLayout = "15:04:05"

// ValidateShiftTimes checks that both times parse and the shift does not end
// before it starts. Overnight shifts are not supported.
func ValidateShiftTimes(startTime, endTime string) error {
	start, err := time.Parse(timeLayout, startTime)
	if err != nil {
		return domain.NewValidationError("start time %q is not in HH:MM:SS format", startTime)
	}
	end, err := time.Parse(timeLayout, endTime)
	if err != nil {
		return domain.NewValidationError("end time %q is not in HH:MM:SS format", endTime)
	}
	if !end.After(start) {
		return domain.NewValidationError("shift must end after it starts")
	}
	return nil
}

// ValidateWeekAssignment checks a pattern cell against its roster before it
// reaches the store.
func ValidateWeekAssignment(roster *domain.RotationRoster, a *domain.WeekAssignment) error {
	if a.Week < 1 || a.Week > roster.CycleLengthWeeks {
		return domain.NewValidationError("week %d is outside the roster's %d-week cycle", a.Week, roster.CycleLengthWeeks)
	}
	if a.DayOfWeek != nil && (*a.DayOfWeek < 0 || *a.DayOfWeek > 6) {
		return domain.NewValidationError("day of week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if a.ShiftKind != nil && !a.ShiftKind.IsValid() {
		return domain.NewValidationError("unknown shift kind %q", *a.ShiftKind)
	}
	if a.IncludeWeekends && a.DayOfWeek != nil {
		return domain.NewValidationError("includeWeekends only applies to whole-week assignments")
	}
	return nil
}
