package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/materializer"
	"github.com/rotaworks/roster-engine/backend/internal/utils"
	"github.com/rotaworks/roster-engine/backend/internal/workflow"
)

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		PartnershipID    int64  `json:"partnershipID" validate:"required"`
		Name             string `json:"name" validate:"required,max=128"`
		CycleLengthWeeks int32  `json:"cycleLengthWeeks" validate:"required,min=1,max=52"`
		StartDate        string `json:"startDate" validate:"required"`
		Recurring        bool   `json:"recurring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "startDate must be a YYYY-MM-DD date")
		return
	}

	roster := &domain.RotationRoster{
		PartnershipID:    req.PartnershipID,
		Name:             req.Name,
		CycleLengthWeeks: req.CycleLengthWeeks,
		StartDate:        startDate,
		State:            domain.RosterStateDraft,
		Recurring:        req.Recurring,
		CreatedBy:        myInfo.ID,
	}

	if err := h.repository.CreateRoster(roster); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "rotation_rosters_partnership_id_fkey":
			h.badRequest(w, r, errors.New("partnership does not exist"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "roster created", roster)
}

func (h *Handler) GetRosters(w http.ResponseWriter, r *http.Request) {
	partnershipID, err := optionalInt64Query(r, "partnershipID")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	if partnershipID == nil {
		h.errorResponse(w, r, "query parameter partnershipID is required")
		return
	}

	rosters, err := h.repository.GetRostersByPartnershipID(*partnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "rosters fetched", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)
	h.successResponse(w, r, "roster fetched", roster)
}

func (h *Handler) UpdateRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	var req struct {
		Name             *string `json:"name" validate:"omitempty,max=128"`
		CycleLengthWeeks *int32  `json:"cycleLengthWeeks" validate:"omitempty,min=1,max=52"`
		StartDate        *string `json:"startDate"`
		Recurring        *bool   `json:"recurring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	revert, err := workflow.RevertOnEdit(roster)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if req.Name != nil {
		roster.Name = *req.Name
	}
	if req.CycleLengthWeeks != nil {
		roster.CycleLengthWeeks = *req.CycleLengthWeeks
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			h.errorResponse(w, r, "startDate must be a YYYY-MM-DD date")
			return
		}
		roster.StartDate = startDate
	}
	if req.Recurring != nil {
		roster.Recurring = *req.Recurring
	}

	if err := h.repository.UpdateRoster(roster); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "roster was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	message := "roster updated"
	if revert {
		if err := h.repository.UpdateRosterState(roster, domain.RosterStateDraft); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		message = "roster updated and reverted to draft, pending approvals are void"
	}

	h.successResponse(w, r, message, roster)
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	if err := h.repository.DeleteRoster(roster.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	message := "roster deleted"
	if roster.State == domain.RosterStateImplemented {
		message = workflow.ImplementedDeleteWarning
	}

	h.successResponse(w, r, message, nil)
}

func (h *Handler) GetWeekAssignments(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	assignments, err := h.repository.GetAssignmentsByRosterID(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "week assignments fetched", assignments)
}

func (h *Handler) UpsertWeekAssignment(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	var req struct {
		Week            int32   `json:"week" validate:"required,min=1"`
		TeamID          int64   `json:"teamID" validate:"required"`
		UserID          int64   `json:"userID" validate:"required"`
		DayOfWeek       *int32  `json:"dayOfWeek"`
		ShiftKind       *string `json:"shiftKind" validate:"omitempty,oneof=early late normal weekend off"`
		IncludeWeekends bool    `json:"includeWeekends"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	revert, err := workflow.RevertOnEdit(roster)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	assignment := &domain.WeekAssignment{
		RosterID:        roster.ID,
		Week:            req.Week,
		TeamID:          req.TeamID,
		UserID:          req.UserID,
		DayOfWeek:       req.DayOfWeek,
		IncludeWeekends: req.IncludeWeekends,
	}
	if req.ShiftKind != nil {
		kind := domain.ShiftKind(*req.ShiftKind)
		assignment.ShiftKind = &kind
	}

	if err := utils.ValidateWeekAssignment(roster, assignment); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// The revert happens before the upsert. If a concurrent approval lands
	// between the two statements the roster is back in draft either way;
	// the race only costs the approver a wasted click.
	if revert {
		if err := h.repository.UpdateRosterState(roster, domain.RosterStateDraft); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "roster was modified concurrently, please retry")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	if err := h.repository.UpsertWeekAssignment(assignment); err != nil {
		var pgErr *pgconn.PgError
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.errorResponse(w, r, "a concurrent edit touched the same cell, please retry")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "week_assignments_user_id_fkey":
			h.badRequest(w, r, errors.New("user does not exist"))
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "week_assignments_team_id_fkey":
			h.badRequest(w, r, errors.New("team does not exist"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	message := "week assignment saved"
	if revert {
		message = "week assignment saved, roster reverted to draft"
	}

	h.successResponse(w, r, message, assignment)
}

func (h *Handler) SubmitRosterForApproval(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	assignmentCount, err := h.repository.CountAssignmentsByRosterID(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := workflow.CanSubmit(roster, assignmentCount); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	members, err := h.repository.GetPartnershipMembers(roster.PartnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	records := workflow.BuildApprovalRecords(roster, members, myInfo.ID, time.Now())
	if len(records) == 0 {
		h.errorResponse(w, r, "partnership has no managers to approve this roster")
		return
	}

	if err := h.repository.UpsertApprovalRecords(records); err != nil {
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.errorResponse(w, r, "a concurrent submission touched the approval ledger, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateRosterState(roster, domain.RosterStatePendingApproval); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "roster was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	for _, member := range members {
		if !member.IsManager || member.UserID == myInfo.ID {
			continue
		}
		h.publishNotification(domain.NotificationMessage{
			Type: domain.NotificationApprovalRequired,
			To:   member.Email,
			Data: domain.ApprovalRequiredData{
				ManagerName:   member.FullName,
				RosterName:    roster.Name,
				SubmitterName: myInfo.FullName,
			},
		})
	}

	// a sole-manager partnership is fully approved by the submission itself
	if err := h.settleLedger(roster); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster submitted for approval", roster)
}

// settleLedger re-reads the approval ledger and moves the roster to
// approved when it is complete. An incomplete ledger is not an error here;
// RecordApproval surfaces it to the caller.
func (h *Handler) settleLedger(roster *domain.RotationRoster) error {
	records, err := h.repository.GetApprovalsByRosterID(roster.ID)
	if err != nil {
		return err
	}
	teamIDs, err := h.repository.GetTeamIDsByPartnershipID(roster.PartnershipID)
	if err != nil {
		return err
	}

	approved, err := workflow.EvaluateLedger(records, teamIDs)
	if err != nil || !approved {
		return nil
	}

	return h.repository.UpdateRosterState(roster, domain.RosterStateApproved)
}

func (h *Handler) GetRosterApprovals(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	records, err := h.repository.GetApprovalsByRosterID(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "approval records fetched", records)
}

func (h *Handler) RecordApproval(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	var req struct {
		Approved bool   `json:"approved"`
		Comment  string `json:"comment" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := workflow.CanRecordApproval(roster, req.Approved, req.Comment); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	record, err := h.repository.GetApprovalByRosterAndManager(roster.ID, myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "you are not an approver of this roster")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	now := time.Now()
	record.Approved = req.Approved
	record.Comment = req.Comment
	if req.Approved {
		record.ApprovedAt = &now
	} else {
		record.ApprovedAt = nil
	}

	if err := h.repository.UpdateApprovalRecord(record); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "approval record was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !req.Approved {
		if err := h.repository.UpdateRosterState(roster, domain.RosterStateDraft); err != nil {
			h.internalServerError(w, r, err)
			return
		}

		if creator, err := h.repository.GetUserByID(roster.CreatedBy); err == nil {
			h.publishNotification(domain.NotificationMessage{
				Type: domain.NotificationRosterRejected,
				To:   creator.Email,
				Data: domain.RosterRejectedData{
					PlannerName: creator.FullName,
					RosterName:  roster.Name,
					ManagerName: myInfo.FullName,
					Comment:     req.Comment,
				},
			})
		}

		h.successResponse(w, r, "changes requested, roster reverted to draft", record)
		return
	}

	records, err := h.repository.GetApprovalsByRosterID(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	teamIDs, err := h.repository.GetTeamIDsByPartnershipID(roster.PartnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	approved, err := workflow.EvaluateLedger(records, teamIDs)
	if err != nil {
		var incomplete *domain.IncompleteApprovalError
		if errors.As(err, &incomplete) {
			h.successResponse(w, r,
				fmt.Sprintf("approval recorded, but the ledger is missing records for %d team(s); an administrator must remediate before the roster can be approved", len(incomplete.MissingTeamIDs)),
				incomplete.MissingTeamIDs)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if approved {
		if err := h.repository.UpdateRosterState(roster, domain.RosterStateApproved); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "approval recorded, roster is now approved", roster)
		return
	}

	h.successResponse(w, r, "approval recorded", record)
}

// RemediateApprovalRecord lets an administrator insert a missing ledger row
// for a team whose manager changed after submission.
func (h *Handler) RemediateApprovalRecord(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	var req struct {
		TeamID    int64 `json:"teamID" validate:"required"`
		ManagerID int64 `json:"managerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if roster.State != domain.RosterStatePendingApproval {
		h.errorResponse(w, r, "roster is not awaiting approval")
		return
	}

	manager, err := h.repository.GetUserByID(req.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "manager not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !manager.HasManagerFlag() {
		h.errorResponse(w, r, "the designated approver must be a manager")
		return
	}

	record := &domain.ApprovalRecord{
		RosterID:  roster.ID,
		TeamID:    req.TeamID,
		ManagerID: req.ManagerID,
	}

	if err := h.repository.UpsertApprovalRecords([]*domain.ApprovalRecord{record}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationApprovalRequired,
		To:   manager.Email,
		Data: domain.ApprovalRequiredData{
			ManagerName: manager.FullName,
			RosterName:  roster.Name,
		},
	})

	h.successResponse(w, r, "approval record created", record)
}

func (h *Handler) ActivateRoster(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	roster := r.Context().Value(RosterCtx).(*domain.RotationRoster)

	var req struct {
		Cycles          int  `json:"cycles" validate:"omitempty,min=1"`
		WorkingDaysOnly bool `json:"workingDaysOnly"`
		AdminOverride   bool `json:"adminOverride"`
	}

	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	adminOverride := req.AdminOverride && myInfo.Role == domain.RoleAdministrator
	if req.AdminOverride && myInfo.Role != domain.RoleAdministrator {
		h.errorResponse(w, r, "only an administrator can override the approval gate")
		return
	}

	if err := workflow.CanActivate(roster, adminOverride); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if adminOverride {
		slog.Warn("roster activated with admin override", "rosterID", roster.ID, "state", roster.State, "adminID", myInfo.ID)
	}

	// one activation per roster at a time
	lockKey := fmt.Sprintf("roster_activation_lock_%d", roster.ID)
	lockCtx, lockCancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer lockCancel()

	locked, err := h.redisClient.SetNX(lockCtx, lockKey, myInfo.ID, time.Duration(h.config.Activation.LockTTL)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "another activation of this roster is already running")
		return
	}
	defer func() {
		unlockCtx, unlockCancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
		defer unlockCancel()
		if err := h.redisClient.Del(unlockCtx, lockKey).Err(); err != nil {
			slog.Error("failed to release activation lock", "key", lockKey, "error", err)
		}
	}()

	assignments, err := h.repository.GetAssignmentsByRosterID(roster.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	members, err := h.repository.GetPartnershipMembers(roster.PartnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	teamIDs, err := h.repository.GetTeamIDsByPartnershipID(roster.PartnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	options := materializer.Options{
		Cycles:          req.Cycles,
		HorizonDays:     h.config.Activation.HorizonDays,
		WorkingDaysOnly: req.WorkingDaysOnly,
	}

	horizon := materializer.ComputeHorizon(roster, options)
	holidays, err := h.repository.GetHolidaysInRange(horizon.Start, horizon.End)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	definitions, err := h.repository.GetShiftDefinitionsForTeams(teamIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	m, err := materializer.New(roster, assignments, members, holidays, definitions, options)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := m.Materialize()
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			h.errorResponse(w, r, validationErr.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.ReplaceEntriesForActivation(roster, result); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "roster was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if creator, err := h.repository.GetUserByID(roster.CreatedBy); err == nil {
		h.publishNotification(domain.NotificationMessage{
			Type: domain.NotificationRosterActivated,
			To:   creator.Email,
			Data: domain.RosterActivatedData{
				PlannerName: creator.FullName,
				RosterName:  roster.Name,
				EntryCount:  len(result.Entries),
			},
		})
	}

	h.successResponse(w, r, "roster activated", map[string]any{
		"entryCount": len(result.Entries),
		"horizon":    result.Horizon,
		"batchID":    result.BatchID,
	})
}
