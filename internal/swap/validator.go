// Package swap validates proposed shift exchanges and plans the entry
// mutations an approval performs. Like the materializer it is pure: the
// handler fetches the entries and persists the planned updates.
package swap

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

// Validate runs the structural checks before a swap request is persisted.
// target is nil for an open offer. targetHasPendingSwap must be the result
// of a store lookup for other pending requests on the target entry.
func Validate(actorID int64, offered, target *domain.ScheduleEntry, targetHasPendingSwap bool) error {
	if offered == nil {
		return domain.NewValidationError("offered schedule entry does not exist")
	}
	if offered.UserID != actorID {
		return domain.NewValidationError("you can only offer a schedule entry you own")
	}
	if offered.Kind != domain.EntryKindWork {
		return domain.NewValidationError("only work entries can be swapped")
	}

	if target == nil {
		return nil
	}

	if target.ID == offered.ID {
		return domain.NewValidationError("offered and target entries must be distinct")
	}
	if target.UserID == actorID {
		return domain.NewValidationError("cannot swap a shift with yourself")
	}
	if target.Kind != domain.EntryKindWork {
		return domain.NewValidationError("target entry is not a work entry")
	}
	if targetHasPendingSwap {
		return domain.NewValidationError("target entry is already part of another pending swap request")
	}

	return nil
}

// ValidateClaim checks that an employee may attach their own entry to an
// open offer.
func ValidateClaim(actorID int64, request *domain.SwapRequest, offered, claim *domain.ScheduleEntry) error {
	if request.Status != domain.SwapStatusPending {
		return domain.NewValidationError("swap request is no longer pending")
	}
	if !request.IsOpenOffer() {
		return domain.NewValidationError("swap request already has a target")
	}
	if actorID == request.RequesterID {
		return domain.NewValidationError("cannot claim your own open offer")
	}
	// claiming is just a deferred Validate with the roles reversed
	return Validate(actorID, claim, offered, false)
}

// IsCrossTeam flags swaps spanning two teams for manager visibility; they
// are permitted.
func IsCrossTeam(offered, target *domain.ScheduleEntry) bool {
	return target != nil && offered.TeamID != target.TeamID
}

// EntryUpdate is one planned mutation of a schedule entry.
type EntryUpdate struct {
	EntryID   int64
	UserID    int64
	ShiftKind domain.ShiftKind
	StartTime string
	EndTime   string
}

// Effect is what approving a swap does to the two entries.
type Effect struct {
	SameDate bool
	Updates  [2]EntryUpdate
}

// PlanApproval computes the approval effect. Same-date swaps exchange the
// shift kind (and its times) between the two entries in place; cross-date
// swaps exchange the person assignment while dates and teams stay put.
func PlanApproval(offered, target *domain.ScheduleEntry) (*Effect, error) {
	if target == nil {
		return nil, domain.NewValidationError("an open offer must be claimed before it can be approved")
	}

	sameDate := offered.Date.Equal(target.Date)
	effect := &Effect{SameDate: sameDate}

	if sameDate {
		effect.Updates = [2]EntryUpdate{
			{EntryID: offered.ID, UserID: offered.UserID, ShiftKind: target.ShiftKind, StartTime: target.StartTime, EndTime: target.EndTime},
			{EntryID: target.ID, UserID: target.UserID, ShiftKind: offered.ShiftKind, StartTime: offered.StartTime, EndTime: offered.EndTime},
		}
		return effect, nil
	}

	effect.Updates = [2]EntryUpdate{
		{EntryID: offered.ID, UserID: target.UserID, ShiftKind: offered.ShiftKind, StartTime: offered.StartTime, EndTime: offered.EndTime},
		{EntryID: target.ID, UserID: offered.UserID, ShiftKind: target.ShiftKind, StartTime: target.StartTime, EndTime: target.EndTime},
	}
	return effect, nil
}

// CanReview gates approve/reject. Open offers cannot be reviewed, and a
// rejection needs notes.
func CanReview(request *domain.SwapRequest, approve bool, notes string) error {
	if request.Status != domain.SwapStatusPending {
		return domain.NewValidationError("swap request is no longer pending")
	}
	if approve && request.IsOpenOffer() {
		return domain.NewValidationError("an open offer must be claimed before it can be approved")
	}
	if !approve && notes == "" {
		return domain.NewValidationError("rejecting a swap requires review notes")
	}
	return nil
}

// CanCancel allows the requester to withdraw a still-pending request.
func CanCancel(request *domain.SwapRequest, actorID int64) error {
	if request.RequesterID != actorID {
		return domain.NewValidationError("only the requester can cancel a swap request")
	}
	if request.Status != domain.SwapStatusPending {
		return domain.NewValidationError("swap request is no longer pending")
	}
	return nil
}

// IsExpired reports whether a pending request's date has already passed.
func IsExpired(request *domain.SwapRequest, now time.Time) bool {
	if request.Status != domain.SwapStatusPending {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return request.Date.Before(today)
}
