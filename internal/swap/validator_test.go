package swap

import (
	"testing"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func workEntry(id, userID, teamID int64, date time.Time, kind domain.ShiftKind) *domain.ScheduleEntry {
	times := domain.IntrinsicShiftTimes[kind]
	return &domain.ScheduleEntry{
		ID:        id,
		UserID:    userID,
		TeamID:    teamID,
		Date:      date,
		Kind:      domain.EntryKindWork,
		ShiftKind: kind,
		StartTime: times[0],
		EndTime:   times[1],
	}
}

func TestValidate(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	target := workEntry(2, 20, 1, monday, domain.ShiftKindLate)

	t.Run("valid targeted swap", func(t *testing.T) {
		assert.NoError(t, Validate(10, offered, target, false))
	})

	t.Run("valid open offer", func(t *testing.T) {
		assert.NoError(t, Validate(10, offered, nil, false))
	})

	t.Run("offered entry missing", func(t *testing.T) {
		assert.Error(t, Validate(10, nil, target, false))
	})

	t.Run("not the owner of the offered entry", func(t *testing.T) {
		assert.Error(t, Validate(99, offered, target, false))
	})

	t.Run("offered entry is not a work entry", func(t *testing.T) {
		vacation := workEntry(3, 10, 1, monday, domain.ShiftKindEarly)
		vacation.Kind = domain.EntryKindVacation
		assert.Error(t, Validate(10, vacation, target, false))
	})

	t.Run("same entry on both sides", func(t *testing.T) {
		assert.Error(t, Validate(10, offered, offered, false))
	})

	t.Run("swapping with yourself", func(t *testing.T) {
		own := workEntry(4, 10, 1, monday.AddDate(0, 0, 1), domain.ShiftKindLate)
		assert.Error(t, Validate(10, offered, own, false))
	})

	t.Run("target already in a pending swap", func(t *testing.T) {
		assert.Error(t, Validate(10, offered, target, true))
	})
}

func TestValidateClaim(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	claim := workEntry(2, 20, 1, monday, domain.ShiftKindLate)

	openOffer := func() *domain.SwapRequest {
		return &domain.SwapRequest{
			ID:             1,
			RequesterID:    10,
			OfferedEntryID: 1,
			Date:           monday,
			Status:         domain.SwapStatusPending,
		}
	}

	t.Run("valid claim", func(t *testing.T) {
		assert.NoError(t, ValidateClaim(20, openOffer(), offered, claim))
	})

	t.Run("claiming your own offer", func(t *testing.T) {
		assert.Error(t, ValidateClaim(10, openOffer(), offered, offered))
	})

	t.Run("already claimed", func(t *testing.T) {
		request := openOffer()
		targetEntryID := int64(5)
		request.TargetEntryID = &targetEntryID
		assert.Error(t, ValidateClaim(20, request, offered, claim))
	})

	t.Run("no longer pending", func(t *testing.T) {
		request := openOffer()
		request.Status = domain.SwapStatusCancelled
		assert.Error(t, ValidateClaim(20, request, offered, claim))
	})

	t.Run("claimed entry not owned by the actor", func(t *testing.T) {
		assert.Error(t, ValidateClaim(30, openOffer(), offered, claim))
	})
}

func TestIsCrossTeam(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	sameTeam := workEntry(2, 20, 1, monday, domain.ShiftKindLate)
	otherTeam := workEntry(3, 30, 2, monday, domain.ShiftKindLate)

	assert.False(t, IsCrossTeam(offered, sameTeam))
	assert.True(t, IsCrossTeam(offered, otherTeam))
	assert.False(t, IsCrossTeam(offered, nil))
}

func TestPlanApprovalSameDate(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	target := workEntry(2, 20, 1, monday, domain.ShiftKindLate)

	effect, err := PlanApproval(offered, target)
	require.NoError(t, err)

	assert.True(t, effect.SameDate)

	// shift kinds and times trade places, owners stay put
	assert.Equal(t, int64(1), effect.Updates[0].EntryID)
	assert.Equal(t, int64(10), effect.Updates[0].UserID)
	assert.Equal(t, domain.ShiftKindLate, effect.Updates[0].ShiftKind)
	assert.Equal(t, "14:00:00", effect.Updates[0].StartTime)

	assert.Equal(t, int64(2), effect.Updates[1].EntryID)
	assert.Equal(t, int64(20), effect.Updates[1].UserID)
	assert.Equal(t, domain.ShiftKindEarly, effect.Updates[1].ShiftKind)
	assert.Equal(t, "06:00:00", effect.Updates[1].StartTime)
}

func TestPlanApprovalCrossDate(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	target := workEntry(2, 20, 2, monday.AddDate(0, 0, 2), domain.ShiftKindLate)

	effect, err := PlanApproval(offered, target)
	require.NoError(t, err)

	assert.False(t, effect.SameDate)

	// owners trade places, each entry keeps its date, team and shift
	assert.Equal(t, int64(1), effect.Updates[0].EntryID)
	assert.Equal(t, int64(20), effect.Updates[0].UserID)
	assert.Equal(t, domain.ShiftKindEarly, effect.Updates[0].ShiftKind)

	assert.Equal(t, int64(2), effect.Updates[1].EntryID)
	assert.Equal(t, int64(10), effect.Updates[1].UserID)
	assert.Equal(t, domain.ShiftKindLate, effect.Updates[1].ShiftKind)
}

func TestPlanApprovalRequiresTarget(t *testing.T) {
	offered := workEntry(1, 10, 1, monday, domain.ShiftKindEarly)
	_, err := PlanApproval(offered, nil)
	assert.Error(t, err)
}

func pendingRequest() *domain.SwapRequest {
	targetUserID := int64(20)
	targetEntryID := int64(2)
	return &domain.SwapRequest{
		ID:             1,
		RequesterID:    10,
		OfferedEntryID: 1,
		TargetUserID:   &targetUserID,
		TargetEntryID:  &targetEntryID,
		Date:           monday,
		Status:         domain.SwapStatusPending,
	}
}

func TestCanReview(t *testing.T) {
	assert.NoError(t, CanReview(pendingRequest(), true, ""))
	assert.NoError(t, CanReview(pendingRequest(), false, "does not fit the coverage plan"))

	t.Run("rejection without notes", func(t *testing.T) {
		assert.Error(t, CanReview(pendingRequest(), false, ""))
	})

	t.Run("approving an unclaimed open offer", func(t *testing.T) {
		request := pendingRequest()
		request.TargetUserID = nil
		request.TargetEntryID = nil
		assert.Error(t, CanReview(request, true, ""))
	})

	t.Run("already settled", func(t *testing.T) {
		request := pendingRequest()
		request.Status = domain.SwapStatusApproved
		assert.Error(t, CanReview(request, true, ""))
	})
}

func TestCanCancel(t *testing.T) {
	assert.NoError(t, CanCancel(pendingRequest(), 10))

	t.Run("not the requester", func(t *testing.T) {
		assert.Error(t, CanCancel(pendingRequest(), 20))
	})

	t.Run("already settled", func(t *testing.T) {
		request := pendingRequest()
		request.Status = domain.SwapStatusRejected
		assert.Error(t, CanCancel(request, 10))
	})
}

func TestIsExpired(t *testing.T) {
	now := monday.AddDate(0, 0, 3)

	t.Run("date has passed", func(t *testing.T) {
		assert.True(t, IsExpired(pendingRequest(), now))
	})

	t.Run("same day is not expired", func(t *testing.T) {
		request := pendingRequest()
		request.Date = now
		assert.False(t, IsExpired(request, now))
	})

	t.Run("settled requests never expire", func(t *testing.T) {
		request := pendingRequest()
		request.Status = domain.SwapStatusApproved
		assert.False(t, IsExpired(request, now))
	})
}
