// Package workflow holds the roster lifecycle rules as pure decision
// helpers. Handlers fetch the rows, ask this package what is allowed, then
// persist the outcome; nothing in here touches the store.
package workflow

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

// ImplementedDeleteWarning accompanies the deletion of an implemented
// roster: schedule entries it produced stay behind.
const ImplementedDeleteWarning = "roster deleted; schedule entries produced by its activation are kept and must be removed separately"

// CanSubmit gates draft -> pending_approval.
func CanSubmit(roster *domain.RotationRoster, assignmentCount int) error {
	if roster.State != domain.RosterStateDraft {
		return domain.NewValidationError("only a draft roster can be submitted for approval, current state is %s", roster.State)
	}
	if roster.Name == "" {
		return domain.NewValidationError("roster needs a name before submission")
	}
	if assignmentCount == 0 {
		return domain.NewValidationError("roster has no assignments to approve")
	}
	return nil
}

// BuildApprovalRecords snapshots one unapproved ledger row per (team,
// manager) pair of the partnership. The submitting manager's own row is
// created pre-approved with a timestamp; that is the explicit
// self-approval-on-submit rule, not an oversight.
func BuildApprovalRecords(roster *domain.RotationRoster, members []*domain.PartnershipMember, submitterID int64, now time.Time) []*domain.ApprovalRecord {
	records := []*domain.ApprovalRecord{}

	for _, member := range members {
		if !member.IsManager {
			continue
		}

		record := &domain.ApprovalRecord{
			RosterID:  roster.ID,
			TeamID:    member.TeamID,
			ManagerID: member.UserID,
		}
		if member.UserID == submitterID {
			record.Approved = true
			approvedAt := now
			record.ApprovedAt = &approvedAt
		}
		records = append(records, record)
	}

	return records
}

// CanRecordApproval gates ledger mutation: only while pending_approval, and
// a rejection must carry a comment.
func CanRecordApproval(roster *domain.RotationRoster, approved bool, comment string) error {
	if roster.State != domain.RosterStatePendingApproval {
		return domain.NewValidationError("roster is not awaiting approval, current state is %s", roster.State)
	}
	if !approved && comment == "" {
		return domain.NewValidationError("requesting changes requires a comment")
	}
	return nil
}

// EvaluateLedger decides whether a freshly re-read ledger moves the roster
// to approved. The double condition (non-zero count AND one record per
// partnership team) keeps "some teams never got a record" from silently
// counting as approved; that state is reported as IncompleteApprovalError
// so an administrator can remediate it.
func EvaluateLedger(records []*domain.ApprovalRecord, partnershipTeamIDs []int64) (bool, error) {
	for _, record := range records {
		if !record.Approved {
			return false, nil
		}
	}

	covered := make(map[int64]bool, len(records))
	for _, record := range records {
		covered[record.TeamID] = true
	}

	missing := []int64{}
	for _, teamID := range partnershipTeamIDs {
		if !covered[teamID] {
			missing = append(missing, teamID)
		}
	}

	if len(records) == 0 || len(missing) > 0 {
		return false, &domain.IncompleteApprovalError{MissingTeamIDs: missing}
	}

	return true, nil
}

// CanActivate gates the materialization call. The admin override bypasses
// the approval gate from draft or pending_approval; the caller must log the
// acting user when it is used.
func CanActivate(roster *domain.RotationRoster, adminOverride bool) error {
	if roster.State == domain.RosterStateImplemented {
		return domain.NewValidationError("roster is already implemented")
	}
	if roster.State == domain.RosterStateApproved {
		return nil
	}
	if adminOverride {
		return nil
	}
	return domain.NewValidationError("roster must be approved before activation, current state is %s", roster.State)
}

// RevertOnEdit reports whether a pattern edit must push the roster back to
// draft, and rejects edits on frozen rosters.
func RevertOnEdit(roster *domain.RotationRoster) (bool, error) {
	if !roster.State.Editable() {
		return false, domain.NewValidationError("roster pattern is frozen in state %s", roster.State)
	}
	return roster.State == domain.RosterStatePendingApproval, nil
}
