package domain

import (
	"slices"
	"time"
)

type ShiftKind string

const (
	ShiftKindEarly   ShiftKind = "early"
	ShiftKindLate    ShiftKind = "late"
	ShiftKindNormal  ShiftKind = "normal"
	ShiftKindWeekend ShiftKind = "weekend"
	ShiftKindOff     ShiftKind = "off"
)

func (k ShiftKind) IsValid() bool {
	switch k {
	case ShiftKindEarly, ShiftKindLate, ShiftKindNormal, ShiftKindWeekend, ShiftKindOff:
		return true
	}
	return false
}

// WeekdayOnly reports whether the kind covers Monday through Friday by
// default; whole-week assignments of these kinds only reach Saturday and
// Sunday when IncludeWeekends is set.
func (k ShiftKind) WeekdayOnly() bool {
	return k == ShiftKindEarly || k == ShiftKindLate || k == ShiftKindNormal
}

// IntrinsicShiftTimes are the final fallback when no catalog entry matches a
// person's location. Times are "15:04:05" strings like everywhere else.
var IntrinsicShiftTimes = map[ShiftKind][2]string{
	ShiftKindEarly:   {"06:00:00", "14:00:00"},
	ShiftKindLate:    {"14:00:00", "22:00:00"},
	ShiftKindNormal:  {"09:00:00", "17:00:00"},
	ShiftKindWeekend: {"09:00:00", "17:00:00"},
}

// ShiftDefinition is one shift-catalog row. TeamID nil means the definition
// applies to every team; an empty CountryCodes slice means no location
// scope.
type ShiftDefinition struct {
	ID           int64     `json:"id"`
	TeamID       *int64    `json:"teamID"`
	Kind         ShiftKind `json:"shiftKind"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	CountryCodes []string  `json:"countryCodes"`
	RegionCode   *string   `json:"regionCode"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// MatchesLocation reports whether the definition is scoped to the given
// country/region. Unscoped definitions never match here; they are the
// second-preference tier.
func (d *ShiftDefinition) MatchesLocation(countryCode string, regionCode *string) bool {
	if !slices.Contains(d.CountryCodes, countryCode) {
		return false
	}
	if d.RegionCode == nil {
		return true
	}
	return regionCode != nil && *d.RegionCode == *regionCode
}

type EntryKind string

const (
	EntryKindWork     EntryKind = "work"
	EntryKindVacation EntryKind = "vacation"
	EntryKindTraining EntryKind = "training"
	EntryKindSick     EntryKind = "sick"
)

// ScheduleEntry is one materialized (person, date) cell. SourceRosterID and
// BatchID attribute the entry to the activation that produced it; deleting
// the roster does not cascade here.
type ScheduleEntry struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userID"`
	TeamID         int64     `json:"teamID"`
	Date           time.Time `json:"date"`
	Kind           EntryKind `json:"kind"`
	ShiftKind      ShiftKind `json:"shiftKind"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	Note           string    `json:"note"`
	SourceRosterID *int64    `json:"sourceRosterID"`
	BatchID        *string   `json:"batchID"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

type Holiday struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	CountryCode string    `json:"countryCode"`
	RegionCode  *string   `json:"regionCode"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// AppliesTo implements the holiday exclusion rule: country must match, and
// the holiday must either be country-wide or name the person's region.
func (h *Holiday) AppliesTo(countryCode string, regionCode *string) bool {
	if h.CountryCode != countryCode {
		return false
	}
	if h.RegionCode == nil {
		return true
	}
	return regionCode != nil && *h.RegionCode == *regionCode
}
