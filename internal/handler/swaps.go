package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/swap"
)

func (h *Handler) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		OfferedEntryID int64  `json:"offeredEntryID" validate:"required"`
		TargetEntryID  *int64 `json:"targetEntryID"`
		Reason         string `json:"reason" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	offered, err := h.repository.GetScheduleEntryByID(req.OfferedEntryID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "offered schedule entry not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	offeredPending, err := h.repository.HasPendingSwapForEntry(offered.ID, 0)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if offeredPending {
		h.errorResponse(w, r, "this entry is already part of another pending swap request")
		return
	}

	var target *domain.ScheduleEntry
	targetPending := false
	if req.TargetEntryID != nil {
		target, err = h.repository.GetScheduleEntryByID(*req.TargetEntryID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "target schedule entry not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		targetPending, err = h.repository.HasPendingSwapForEntry(target.ID, 0)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	if err := swap.Validate(myInfo.ID, offered, target, targetPending); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	request := &domain.SwapRequest{
		RequesterID:    myInfo.ID,
		OfferedEntryID: offered.ID,
		Date:           offered.Date,
		Reason:         req.Reason,
		Status:         domain.SwapStatusPending,
		CrossTeam:      swap.IsCrossTeam(offered, target),
	}
	if target != nil {
		request.TargetUserID = &target.UserID
		request.TargetEntryID = &target.ID
		// expiry tracks the earlier of the two days
		if target.Date.Before(offered.Date) {
			request.Date = target.Date
		}
	}

	if err := h.repository.CreateSwapRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if target != nil {
		if targetUser, err := h.repository.GetUserByID(target.UserID); err == nil {
			h.publishNotification(domain.NotificationMessage{
				Type: domain.NotificationSwapCreated,
				To:   targetUser.Email,
				Data: domain.SwapCreatedData{
					TargetName:    targetUser.FullName,
					RequesterName: myInfo.FullName,
					Date:          request.Date.Format(dateLayout),
				},
			})
		}
	}

	h.successResponse(w, r, "swap request created", request)
}

func (h *Handler) GetSwapRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.repository.ExpireStaleSwapRequests(time.Now()); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	requests, err := h.repository.GetSwapRequestsForUser(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "swap requests fetched", requests)
}

func (h *Handler) GetSwapRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)
	h.successResponse(w, r, "swap request fetched", request)
}

func (h *Handler) ClaimSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	var req struct {
		EntryID int64 `json:"entryID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if h.expireIfStale(w, r, request) {
		return
	}

	offered, err := h.repository.GetScheduleEntryByID(request.OfferedEntryID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	claim, err := h.repository.GetScheduleEntryByID(req.EntryID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "claimed schedule entry not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	claimPending, err := h.repository.HasPendingSwapForEntry(claim.ID, request.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if claimPending {
		h.errorResponse(w, r, "this entry is already part of another pending swap request")
		return
	}

	if err := swap.ValidateClaim(myInfo.ID, request, offered, claim); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	request.TargetUserID = &claim.UserID
	request.TargetEntryID = &claim.ID
	request.CrossTeam = swap.IsCrossTeam(offered, claim)
	if claim.Date.Before(request.Date) {
		request.Date = claim.Date
	}

	if err := h.repository.UpdateSwapRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "swap request was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "open offer claimed", request)
}

// canReviewSwap checks who may settle the request: the targeted employee,
// or a manager/administrator.
func canReviewSwap(request *domain.SwapRequest, actor *domain.User) bool {
	if request.TargetUserID != nil && *request.TargetUserID == actor.ID {
		return true
	}
	return actor.Role == domain.RoleManager || actor.Role == domain.RoleAdministrator
}

// expireIfStale lazily expires a pending request whose date has passed and
// reports whether the caller should stop.
func (h *Handler) expireIfStale(w http.ResponseWriter, r *http.Request, request *domain.SwapRequest) bool {
	if !swap.IsExpired(request, time.Now()) {
		return false
	}

	request.Status = domain.SwapStatusExpired
	if err := h.repository.UpdateSwapRequest(request); err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return true
	}

	h.errorResponse(w, r, "swap request has expired")
	return true
}

func (h *Handler) ApproveSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	var req struct {
		Notes string `json:"notes" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !canReviewSwap(request, myInfo) {
		h.errorResponse(w, r, "you cannot review this swap request")
		return
	}
	if h.expireIfStale(w, r, request) {
		return
	}
	if err := swap.CanReview(request, true, req.Notes); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	offered, err := h.repository.GetScheduleEntryByID(request.OfferedEntryID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	target, err := h.repository.GetScheduleEntryByID(*request.TargetEntryID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	effect, err := swap.PlanApproval(offered, target)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.ApplySwapApproval(request, effect, myInfo.ID, req.Notes); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "swap request was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "swap approved, schedule entries updated", request)
}

func (h *Handler) RejectSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	var req struct {
		Notes string `json:"notes" validate:"required,max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !canReviewSwap(request, myInfo) {
		h.errorResponse(w, r, "you cannot review this swap request")
		return
	}
	if err := swap.CanReview(request, false, req.Notes); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	now := time.Now()
	request.Status = domain.SwapStatusRejected
	request.ReviewerID = &myInfo.ID
	request.ReviewNotes = &req.Notes
	request.ReviewedAt = &now

	if err := h.repository.UpdateSwapRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "swap request was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "swap request rejected", request)
}

func (h *Handler) CancelSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	if err := swap.CanCancel(request, myInfo.ID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	request.Status = domain.SwapStatusCancelled

	if err := h.repository.UpdateSwapRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "swap request was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "swap request cancelled", request)
}
