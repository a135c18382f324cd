package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

func (h *Handler) CreatePartnership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	partnership := &domain.Partnership{Name: req.Name}

	if err := h.repository.CreatePartnership(partnership); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "partnerships_name_key":
			h.badRequest(w, r, errors.New("partnership name already taken"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "partnership created", partnership)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	partnershipIDParam := chi.URLParam(r, "id")
	partnershipID, err := strconv.ParseInt(partnershipIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid partnership id")
		return
	}

	var req struct {
		Name string `json:"name" validate:"required,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team := &domain.Team{
		PartnershipID: partnershipID,
		Name:          req.Name,
	}

	if err := h.repository.CreateTeam(team); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "teams_partnership_id_fkey":
			h.badRequest(w, r, errors.New("partnership does not exist"))
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "teams_partnership_id_name_key":
			h.badRequest(w, r, errors.New("team name already taken within this partnership"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "team created", team)
}

func (h *Handler) GetPartnershipMembers(w http.ResponseWriter, r *http.Request) {
	partnershipIDParam := chi.URLParam(r, "id")
	partnershipID, err := strconv.ParseInt(partnershipIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid partnership id")
		return
	}

	members, err := h.repository.GetPartnershipMembers(partnershipID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "partnership members fetched", members)
}
