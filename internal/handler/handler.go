package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rotaworks/roster-engine/backend/internal/config"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notificationCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notificationCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// everything below requires a logged-in user
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/partnerships", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/", h.CreatePartnership)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/{id}/teams", h.CreateTeam)
			r.Get("/{id}/members", h.GetPartnershipMembers)
		})

		r.Route("/shift-definitions", func(r chi.Router) {
			r.Get("/", h.GetShiftDefinitions)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/", h.CreateShiftDefinition)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Delete("/{id}", h.DeleteShiftDefinition)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.GetHolidays)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/", h.CreateHoliday)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/rosters", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Post("/", h.CreateRoster)
			r.Get("/", h.GetRosters)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.roster)
				r.Get("/", h.GetRoster)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Patch("/", h.UpdateRoster)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Delete("/", h.DeleteRoster)
				r.Get("/assignments", h.GetWeekAssignments)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Put("/assignments", h.UpsertWeekAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Post("/submit", h.SubmitRosterForApproval)
				r.Get("/approvals", h.GetRosterApprovals)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/approvals", h.RecordApproval)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/approvals/remediate", h.RemediateApprovalRecord)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdministrator})).Post("/activate", h.ActivateRoster)
			})
		})

		r.Route("/schedule-entries", func(r chi.Router) {
			r.Get("/", h.GetScheduleEntries)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrator})).Post("/", h.CreateScheduleEntry)
		})

		r.Route("/swaps", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveEmployee)
			r.Post("/", h.CreateSwapRequest)
			r.Get("/", h.GetSwapRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.swapRequest)
				r.Get("/", h.GetSwapRequest)
				r.Post("/claim", h.ClaimSwapRequest)
				r.Post("/approve", h.ApproveSwapRequest)
				r.Post("/reject", h.RejectSwapRequest)
				r.Post("/cancel", h.CancelSwapRequest)
			})
		})
	})
}
