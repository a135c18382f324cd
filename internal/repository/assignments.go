package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

const uniqueViolationCode = "23505"

// asConflict rewraps a unique violation that slipped past an ON CONFLICT
// arm (concurrent upserts can still collide) so callers can retry.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &domain.ConflictError{Constraint: pgErr.ConstraintName}
	}
	return err
}

// Whole-week assignment rows store day_of_week = -1 so the uniqueness key
// (roster, week, user, team, day_of_week) also covers them; NULL values
// would fall out of the constraint.
const wholeWeekSentinel int32 = -1

func dayOfWeekParam(a *domain.WeekAssignment) int32 {
	if a.DayOfWeek == nil {
		return wholeWeekSentinel
	}
	return *a.DayOfWeek
}

// UpsertWeekAssignment is the last-write-wins pattern edit. A concurrent
// duplicate insert lands on the conflict arm and becomes an update, so the
// race never surfaces to the caller.
func (r *Repository) UpsertWeekAssignment(a *domain.WeekAssignment) error {
	query := `
		INSERT INTO week_assignments (roster_id, week, team_id, user_id, day_of_week, shift_kind, include_weekends)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (roster_id, week, user_id, team_id, day_of_week)
		DO UPDATE SET
			shift_kind = EXCLUDED.shift_kind,
			include_weekends = EXCLUDED.include_weekends,
			version = week_assignments.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		a.RosterID,
		a.Week,
		a.TeamID,
		a.UserID,
		dayOfWeekParam(a),
		a.ShiftKind,
		a.IncludeWeekends,
	}
	dst := []any{&a.ID, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return asConflict(err)
	}

	return nil
}

func (r *Repository) GetAssignmentsByRosterID(rosterID int64) ([]*domain.WeekAssignment, error) {
	query := `
		SELECT id, week, team_id, user_id, day_of_week, shift_kind, include_weekends, created_at, version
		FROM week_assignments
		WHERE roster_id = $1
		ORDER BY week, user_id, day_of_week
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.WeekAssignment{}
	for rows.Next() {
		a := domain.WeekAssignment{
			RosterID: rosterID,
		}
		var day int32
		var shiftKind sql.NullString
		dst := []any{
			&a.ID,
			&a.Week,
			&a.TeamID,
			&a.UserID,
			&day,
			&shiftKind,
			&a.IncludeWeekends,
			&a.CreatedAt,
			&a.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if day != wholeWeekSentinel {
			a.DayOfWeek = &day
		}
		if shiftKind.Valid {
			kind := domain.ShiftKind(shiftKind.String)
			a.ShiftKind = &kind
		}
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) CountAssignmentsByRosterID(rosterID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM week_assignments WHERE roster_id = $1 AND shift_kind IS NOT NULL
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, rosterID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) DeleteWeekAssignment(id int64) error {
	query := `
		DELETE FROM week_assignments WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
