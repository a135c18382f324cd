package domain

import "time"

type RosterState string

const (
	RosterStateDraft           RosterState = "draft"
	RosterStatePendingApproval RosterState = "pending_approval"
	RosterStateApproved        RosterState = "approved"
	RosterStateImplemented     RosterState = "implemented"
)

func (s RosterState) IsValid() bool {
	switch s {
	case RosterStateDraft, RosterStatePendingApproval, RosterStateApproved, RosterStateImplemented:
		return true
	}
	return false
}

// Editable reports whether the pattern may still be changed. Edits during
// pending_approval are allowed but force the roster back to draft.
func (s RosterState) Editable() bool {
	return s == RosterStateDraft || s == RosterStatePendingApproval
}

type RotationRoster struct {
	ID               int64       `json:"id"`
	PartnershipID    int64       `json:"partnershipID"`
	Name             string      `json:"name"`
	CycleLengthWeeks int32       `json:"cycleLengthWeeks"`
	StartDate        time.Time   `json:"startDate"`
	State            RosterState `json:"state"`
	Recurring        bool        `json:"recurring"`
	CreatedBy        int64       `json:"createdBy"`
	CreatedAt        time.Time   `json:"createdAt"`
	Version          int32       `json:"-"`
}

// WeekAssignment is one cell of the compact pattern. DayOfWeek nil means the
// assignment covers the whole week; a non-nil value is Go weekday numbering,
// 0 for Sunday through 6 for Saturday. ShiftKind nil means the cell was
// cleared. IncludeWeekends is only meaningful for whole-week assignments
// whose shift kind is weekday-only.
type WeekAssignment struct {
	ID              int64      `json:"id"`
	RosterID        int64      `json:"rosterID"`
	Week            int32      `json:"week"`
	TeamID          int64      `json:"teamID"`
	UserID          int64      `json:"userID"`
	DayOfWeek       *int32     `json:"dayOfWeek"`
	ShiftKind       *ShiftKind `json:"shiftKind"`
	IncludeWeekends bool       `json:"includeWeekends"`
	CreatedAt       time.Time  `json:"createdAt"`
	Version         int32      `json:"-"`
}
