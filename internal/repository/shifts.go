package repository

import (
	"strings"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

// country_codes is stored as a comma-joined text column; an empty string
// means the definition has no location scope.
func joinCountryCodes(codes []string) string {
	return strings.Join(codes, ",")
}

func splitCountryCodes(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func (r *Repository) CreateShiftDefinition(def *domain.ShiftDefinition) error {
	query := `
		INSERT INTO shift_definitions (team_id, shift_kind, start_time, end_time, country_codes, region_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		def.TeamID,
		def.Kind,
		def.StartTime,
		def.EndTime,
		joinCountryCodes(def.CountryCodes),
		def.RegionCode,
	}
	dst := []any{&def.ID, &def.CreatedAt, &def.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func scanShiftDefinitions(rows interface {
	Next() bool
	Scan(dst ...any) error
	Err() error
}) ([]*domain.ShiftDefinition, error) {
	defs := []*domain.ShiftDefinition{}
	for rows.Next() {
		var def domain.ShiftDefinition
		var countryCodes string
		dst := []any{
			&def.ID,
			&def.TeamID,
			&def.Kind,
			&def.StartTime,
			&def.EndTime,
			&countryCodes,
			&def.RegionCode,
			&def.CreatedAt,
			&def.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		def.CountryCodes = splitCountryCodes(countryCodes)
		defs = append(defs, &def)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return defs, nil
}

// GetShiftDefinitions returns the catalog rows visible to a team: its own
// definitions plus catalog-wide ones.
func (r *Repository) GetShiftDefinitions(teamID *int64) ([]*domain.ShiftDefinition, error) {
	query := `
		SELECT id, team_id, shift_kind, start_time, end_time, country_codes, region_code, created_at, version
		FROM shift_definitions
		WHERE team_id IS NULL OR ($1::bigint IS NOT NULL AND team_id = $1)
		ORDER BY shift_kind, team_id NULLS LAST
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftDefinitions(rows)
}

// GetShiftDefinitionsForTeams fetches the catalog for every team of a
// roster in one round trip; the materializer filters per assignment.
func (r *Repository) GetShiftDefinitionsForTeams(teamIDs []int64) ([]*domain.ShiftDefinition, error) {
	query := `
		SELECT id, team_id, shift_kind, start_time, end_time, country_codes, region_code, created_at, version
		FROM shift_definitions
		WHERE team_id IS NULL OR team_id = ANY($1)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftDefinitions(rows)
}

func (r *Repository) DeleteShiftDefinition(id int64) error {
	query := `
		DELETE FROM shift_definitions WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
