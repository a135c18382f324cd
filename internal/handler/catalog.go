package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/utils"
)

const dateLayout = "2006-01-02"

// optionalInt64Query parses an optional numeric query parameter.
func optionalInt64Query(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError("query parameter %s must be a number", name)
	}
	return &value, nil
}

// dateRangeQuery parses from/to query parameters, defaulting to the next
// calendar year starting today.
func dateRangeQuery(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("query parameter from must be a YYYY-MM-DD date")
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("query parameter to must be a YYYY-MM-DD date")
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.NewValidationError("to must not be before from")
	}

	return from, to, nil
}

func (h *Handler) GetShiftDefinitions(w http.ResponseWriter, r *http.Request) {
	teamID, err := optionalInt64Query(r, "teamID")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	definitions, err := h.repository.GetShiftDefinitions(teamID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift definitions fetched", definitions)
}

func (h *Handler) CreateShiftDefinition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID       *int64   `json:"teamID"`
		ShiftKind    string   `json:"shiftKind" validate:"required,oneof=early late normal weekend"`
		StartTime    string   `json:"startTime" validate:"required"`
		EndTime      string   `json:"endTime" validate:"required"`
		CountryCodes []string `json:"countryCodes" validate:"dive,iso3166_1_alpha2"`
		RegionCode   *string  `json:"regionCode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftTimes(req.StartTime, req.EndTime); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	if req.RegionCode != nil && len(req.CountryCodes) != 1 {
		h.errorResponse(w, r, "a region-scoped definition must name exactly one country")
		return
	}

	def := &domain.ShiftDefinition{
		TeamID:       req.TeamID,
		Kind:         domain.ShiftKind(req.ShiftKind),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CountryCodes: req.CountryCodes,
		RegionCode:   req.RegionCode,
	}

	if err := h.repository.CreateShiftDefinition(def); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_definitions_team_id_fkey":
			h.badRequest(w, r, errors.New("team does not exist"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift definition created", def)
}

func (h *Handler) DeleteShiftDefinition(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid shift definition id")
		return
	}

	if err := h.repository.DeleteShiftDefinition(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift definition deleted", nil)
}

func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeQuery(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	countryCode := r.URL.Query().Get("country")
	var regionCode *string
	if raw := r.URL.Query().Get("region"); raw != "" {
		regionCode = &raw
	}

	var holidays []*domain.Holiday
	if countryCode == "" {
		holidays, err = h.repository.GetHolidaysInRange(from, to)
	} else {
		holidays, err = h.repository.GetHolidays(countryCode, regionCode, from, to)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "holidays fetched", holidays)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name" validate:"required,max=128"`
		Date        string  `json:"date" validate:"required"`
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

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "date must be a YYYY-MM-DD date")
		return
	}

	holiday := &domain.Holiday{
		Name:        req.Name,
		Date:        date,
		CountryCode: req.CountryCode,
		RegionCode:  req.RegionCode,
	}

	if err := h.repository.CreateHoliday(holiday); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "holiday created", holiday)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid holiday id")
		return
	}

	if err := h.repository.DeleteHoliday(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "holiday deleted", nil)
}
