// Package seed fills an empty database with a demo partnership: two teams
// spread over several countries, a shift catalog, public holidays and one
// draft roster ready to submit.
package seed

import (
	"log/slog"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/config"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/repository"
	"github.com/rotaworks/roster-engine/backend/internal/utils"
)

func SeedDemoData(cfg *config.Config, repo *repository.Repository) {
	partnership := &domain.Partnership{Name: "Northwind Support"}
	if err := repo.CreatePartnership(partnership); err != nil {
		slog.Error("failed to create demo partnership", "error", err)
		return
	}

	frontline := &domain.Team{PartnershipID: partnership.ID, Name: "Frontline"}
	backoffice := &domain.Team{PartnershipID: partnership.ID, Name: "Back Office"}
	for _, team := range []*domain.Team{frontline, backoffice} {
		if err := repo.CreateTeam(team); err != nil {
			slog.Error("failed to create demo team", "team", team.Name, "error", err)
			return
		}
	}

	seedUsers(cfg, repo, frontline, backoffice)
	seedCatalog(repo, frontline)
	seedHolidays(repo)
	seedRoster(repo, partnership, frontline)

	slog.Info("demo data seeded", "partnershipID", partnership.ID)
}

// seedUsers inserts one manager per team plus a handful of employees.
func seedUsers(cfg *config.Config, repo *repository.Repository, teams ...*domain.Team) {
	for _, team := range teams {
		manager, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("failed to generate demo manager", "error", err)
			continue
		}
		manager.Role = domain.RoleManager
		manager.TeamID = &team.ID

		if err := repo.CreateUser(manager); err != nil {
			slog.Error("failed to insert demo manager", "error", err)
			continue
		}

		for i := 0; i < 4; i++ {
			employee, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate demo employee", "error", err)
				continue
			}
			employee.TeamID = &team.ID

			if err := repo.CreateUser(employee); err != nil {
				slog.Error("failed to insert demo employee", "error", err)
			}
		}
	}
}

func seedCatalog(repo *repository.Repository, frontline *domain.Team) {
	bavaria := "BY"

	definitions := []*domain.ShiftDefinition{
		// unscoped defaults for every team
		{Kind: domain.ShiftKindEarly, StartTime: "07:00:00", EndTime: "15:00:00"},
		{Kind: domain.ShiftKindLate, StartTime: "15:00:00", EndTime: "23:00:00"},
		{Kind: domain.ShiftKindNormal, StartTime: "09:00:00", EndTime: "17:30:00"},
		{Kind: domain.ShiftKindWeekend, StartTime: "10:00:00", EndTime: "16:00:00"},
		// frontline in Germany starts earlier
		{TeamID: &frontline.ID, Kind: domain.ShiftKindEarly, StartTime: "06:00:00", EndTime: "14:00:00", CountryCodes: []string{"DE"}},
		// bavarian region override
		{Kind: domain.ShiftKindNormal, StartTime: "08:00:00", EndTime: "16:30:00", CountryCodes: []string{"DE"}, RegionCode: &bavaria},
	}

	for _, def := range definitions {
		if err := repo.CreateShiftDefinition(def); err != nil {
			slog.Error("failed to insert demo shift definition", "error", err)
		}
	}
}

func seedHolidays(repo *repository.Repository) {
	year := time.Now().Year()
	bavaria := "BY"
	ontario := "ON"

	holidays := []*domain.Holiday{
		{Name: "New Year's Day", Date: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), CountryCode: "GB"},
		{Name: "New Year's Day", Date: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), CountryCode: "DE"},
		{Name: "Epiphany", Date: time.Date(year, 1, 6, 0, 0, 0, 0, time.UTC), CountryCode: "DE", RegionCode: &bavaria},
		{Name: "Canada Day", Date: time.Date(year, 7, 1, 0, 0, 0, 0, time.UTC), CountryCode: "CA"},
		{Name: "Family Day", Date: time.Date(year, 2, 17, 0, 0, 0, 0, time.UTC), CountryCode: "CA", RegionCode: &ontario},
		{Name: "National Day", Date: time.Date(year, 10, 1, 0, 0, 0, 0, time.UTC), CountryCode: "CN"},
	}

	for _, holiday := range holidays {
		if err := repo.CreateHoliday(holiday); err != nil {
			slog.Error("failed to insert demo holiday", "holiday", holiday.Name, "error", err)
		}
	}
}

// seedRoster creates a two-week draft rotation with the frontline members
// alternating early and late weeks.
func seedRoster(repo *repository.Repository, partnership *domain.Partnership, frontline *domain.Team) {
	members, err := repo.GetPartnershipMembers(partnership.ID)
	if err != nil {
		slog.Error("failed to fetch demo members", "error", err)
		return
	}
	if len(members) == 0 {
		return
	}

	creatorID := members[0].UserID
	for _, member := range members {
		if member.IsManager {
			creatorID = member.UserID
			break
		}
	}

	nextMonday := nextWeekday(time.Now().UTC(), time.Monday)
	roster := &domain.RotationRoster{
		PartnershipID:    partnership.ID,
		Name:             "Frontline rotation",
		CycleLengthWeeks: 2,
		StartDate:        nextMonday,
		State:            domain.RosterStateDraft,
		Recurring:        true,
		CreatedBy:        creatorID,
	}
	if err := repo.CreateRoster(roster); err != nil {
		slog.Error("failed to create demo roster", "error", err)
		return
	}

	early := domain.ShiftKindEarly
	late := domain.ShiftKindLate
	for _, member := range members {
		if member.TeamID != frontline.ID {
			continue
		}

		week1 := &domain.WeekAssignment{
			RosterID:  roster.ID,
			Week:      1,
			TeamID:    member.TeamID,
			UserID:    member.UserID,
			ShiftKind: &early,
		}
		week2 := &domain.WeekAssignment{
			RosterID:  roster.ID,
			Week:      2,
			TeamID:    member.TeamID,
			UserID:    member.UserID,
			ShiftKind: &late,
		}
		for _, assignment := range []*domain.WeekAssignment{week1, week2} {
			if err := repo.UpsertWeekAssignment(assignment); err != nil {
				slog.Error("failed to insert demo assignment", "error", err)
			}
		}
	}
}

func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != weekday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
