package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/utils"
)

func (h *Handler) GetScheduleEntries(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeQuery(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	userID, err := optionalInt64Query(r, "userID")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	teamID, err := optionalInt64Query(r, "teamID")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	entries, err := h.repository.GetScheduleEntries(userID, teamID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule entries fetched", entries)
}

// CreateScheduleEntry inserts a single entry outside any activation. It is
// how vacation, training and sick days get into the schedule, and also the
// remediation path when an activated schedule needs a manual correction.
func (h *Handler) CreateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64  `json:"userID" validate:"required"`
		TeamID    int64  `json:"teamID" validate:"required"`
		Date      string `json:"date" validate:"required"`
		Kind      string `json:"kind" validate:"required,oneof=work vacation training sick"`
		ShiftKind string `json:"shiftKind" validate:"omitempty,oneof=early late normal weekend"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Note      string `json:"note" validate:"max=256"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "date must be a YYYY-MM-DD date")
		return
	}

	kind := domain.EntryKind(req.Kind)
	shiftKind := domain.ShiftKind(req.ShiftKind)
	startTime := req.StartTime
	endTime := req.EndTime

	if kind == domain.EntryKindWork {
		if req.ShiftKind == "" {
			h.errorResponse(w, r, "a work entry needs a shift kind")
			return
		}
		if startTime == "" || endTime == "" {
			times := domain.IntrinsicShiftTimes[shiftKind]
			startTime, endTime = times[0], times[1]
		}
		if err := utils.ValidateShiftTimes(startTime, endTime); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	} else {
		// absence entries span the whole day
		shiftKind = ""
		startTime, endTime = "00:00:00", "23:59:59"
	}

	entry := &domain.ScheduleEntry{
		UserID:    req.UserID,
		TeamID:    req.TeamID,
		Date:      date,
		Kind:      kind,
		ShiftKind: shiftKind,
		StartTime: startTime,
		EndTime:   endTime,
		Note:      req.Note,
	}

	if err := h.repository.CreateScheduleEntry(entry); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "schedule_entries_user_id_fkey":
			h.badRequest(w, r, errors.New("user does not exist"))
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "schedule_entries_team_id_fkey":
			h.badRequest(w, r, errors.New("team does not exist"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule entry created", entry)
}
