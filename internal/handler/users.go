package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "users fetched", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string  `json:"username" validate:"required"`
		FullName    string  `json:"fullName" validate:"required"`
		Email       string  `json:"email" validate:"required,email"`
		Role        string  `json:"role" validate:"required,oneof=employee manager administrator"`
		TeamID      *int64  `json:"teamID"`
		CountryCode string  `json:"countryCode" validate:"required,iso3166_1_alpha2"`
		RegionCode  *string `json:"regionCode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		TeamID:       req.TeamID,
		CountryCode:  req.CountryCode,
		RegionCode:   req.RegionCode,
		IsActive:     true,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_username_key":
				h.badRequest(w, r, errors.New("username already taken"))
			case pgErr.ConstraintName == "users_email_key":
				h.badRequest(w, r, errors.New("email already registered"))
			case pgErr.ConstraintName == "users_team_id_fkey":
				h.badRequest(w, r, errors.New("team does not exist"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationUserInvited,
		To:   user.Email,
		Data: domain.UserInvitedData{
			FullName: user.FullName,
			Username: user.Username,
			Password: password,
		},
	})

	h.successResponse(w, r, "user created", user)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.successResponse(w, r, "user fetched", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		FullName    *string `json:"fullName"`
		Email       *string `json:"email" validate:"omitempty,email"`
		Role        *string `json:"role" validate:"omitempty,oneof=employee manager administrator"`
		TeamID      *int64  `json:"teamID"`
		CountryCode *string `json:"countryCode" validate:"omitempty,iso3166_1_alpha2"`
		RegionCode  *string `json:"regionCode"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.TeamID != nil {
		user.TeamID = req.TeamID
	}
	if req.CountryCode != nil {
		user.CountryCode = *req.CountryCode
	}
	if req.RegionCode != nil {
		user.RegionCode = req.RegionCode
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "user was modified concurrently, please retry")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.badRequest(w, r, errors.New("email already registered"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "user updated", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "user deleted", nil)
}
