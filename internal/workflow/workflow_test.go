package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftRoster() *domain.RotationRoster {
	return &domain.RotationRoster{
		ID:               1,
		PartnershipID:    1,
		Name:             "Frontline rotation",
		CycleLengthWeeks: 2,
		StartDate:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		State:            domain.RosterStateDraft,
	}
}

func managerMember(userID, teamID int64) *domain.PartnershipMember {
	return &domain.PartnershipMember{UserID: userID, TeamID: teamID, IsManager: true}
}

func employeeMember(userID, teamID int64) *domain.PartnershipMember {
	return &domain.PartnershipMember{UserID: userID, TeamID: teamID}
}

func TestCanSubmit(t *testing.T) {
	t.Run("draft with assignments", func(t *testing.T) {
		assert.NoError(t, CanSubmit(draftRoster(), 3))
	})

	t.Run("no assignments", func(t *testing.T) {
		assert.Error(t, CanSubmit(draftRoster(), 0))
	})

	t.Run("not a draft", func(t *testing.T) {
		roster := draftRoster()
		roster.State = domain.RosterStatePendingApproval
		assert.Error(t, CanSubmit(roster, 3))
	})

	t.Run("unnamed roster", func(t *testing.T) {
		roster := draftRoster()
		roster.Name = ""
		assert.Error(t, CanSubmit(roster, 3))
	})
}

func TestBuildApprovalRecords(t *testing.T) {
	now := time.Now()
	members := []*domain.PartnershipMember{
		managerMember(1, 100),
		employeeMember(2, 100),
		managerMember(3, 200),
		employeeMember(4, 200),
	}

	records := BuildApprovalRecords(draftRoster(), members, 1, now)

	require.Len(t, records, 2)

	// the submitter's own row is pre-approved
	assert.Equal(t, int64(1), records[0].ManagerID)
	assert.True(t, records[0].Approved)
	require.NotNil(t, records[0].ApprovedAt)
	assert.Equal(t, now, *records[0].ApprovedAt)

	assert.Equal(t, int64(3), records[1].ManagerID)
	assert.False(t, records[1].Approved)
	assert.Nil(t, records[1].ApprovedAt)
}

func TestBuildApprovalRecordsNoManagers(t *testing.T) {
	members := []*domain.PartnershipMember{employeeMember(2, 100)}
	records := BuildApprovalRecords(draftRoster(), members, 1, time.Now())
	assert.Empty(t, records)
}

func TestCanRecordApproval(t *testing.T) {
	pending := draftRoster()
	pending.State = domain.RosterStatePendingApproval

	assert.NoError(t, CanRecordApproval(pending, true, ""))
	assert.NoError(t, CanRecordApproval(pending, false, "shift load is uneven"))

	t.Run("rejection without a comment", func(t *testing.T) {
		assert.Error(t, CanRecordApproval(pending, false, ""))
	})

	t.Run("wrong state", func(t *testing.T) {
		assert.Error(t, CanRecordApproval(draftRoster(), true, ""))
	})
}

func record(teamID int64, approved bool) *domain.ApprovalRecord {
	return &domain.ApprovalRecord{RosterID: 1, TeamID: teamID, ManagerID: teamID * 10, Approved: approved}
}

func TestEvaluateLedger(t *testing.T) {
	t.Run("all approved and complete", func(t *testing.T) {
		approved, err := EvaluateLedger(
			[]*domain.ApprovalRecord{record(100, true), record(200, true)},
			[]int64{100, 200},
		)
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("one still unapproved", func(t *testing.T) {
		approved, err := EvaluateLedger(
			[]*domain.ApprovalRecord{record(100, true), record(200, false)},
			[]int64{100, 200},
		)
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("all approved but a team has no record", func(t *testing.T) {
		approved, err := EvaluateLedger(
			[]*domain.ApprovalRecord{record(100, true)},
			[]int64{100, 200},
		)
		assert.False(t, approved)

		var incomplete *domain.IncompleteApprovalError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, []int64{200}, incomplete.MissingTeamIDs)
	})

	t.Run("empty ledger never approves", func(t *testing.T) {
		approved, err := EvaluateLedger(nil, []int64{100})
		assert.False(t, approved)

		var incomplete *domain.IncompleteApprovalError
		assert.True(t, errors.As(err, &incomplete))
	})
}

func TestCanActivate(t *testing.T) {
	approved := draftRoster()
	approved.State = domain.RosterStateApproved

	assert.NoError(t, CanActivate(approved, false))

	t.Run("draft without override", func(t *testing.T) {
		assert.Error(t, CanActivate(draftRoster(), false))
	})

	t.Run("draft with admin override", func(t *testing.T) {
		assert.NoError(t, CanActivate(draftRoster(), true))
	})

	t.Run("already implemented", func(t *testing.T) {
		implemented := draftRoster()
		implemented.State = domain.RosterStateImplemented
		assert.Error(t, CanActivate(implemented, false))
		// even the override cannot re-run an implemented roster
		assert.Error(t, CanActivate(implemented, true))
	})
}

func TestRevertOnEdit(t *testing.T) {
	t.Run("draft stays draft", func(t *testing.T) {
		revert, err := RevertOnEdit(draftRoster())
		require.NoError(t, err)
		assert.False(t, revert)
	})

	t.Run("pending approval reverts", func(t *testing.T) {
		roster := draftRoster()
		roster.State = domain.RosterStatePendingApproval
		revert, err := RevertOnEdit(roster)
		require.NoError(t, err)
		assert.True(t, revert)
	})

	t.Run("approved is frozen", func(t *testing.T) {
		roster := draftRoster()
		roster.State = domain.RosterStateApproved
		_, err := RevertOnEdit(roster)
		assert.Error(t, err)
	})

	t.Run("implemented is frozen", func(t *testing.T) {
		roster := draftRoster()
		roster.State = domain.RosterStateImplemented
		_, err := RevertOnEdit(roster)
		assert.Error(t, err)
	})
}
