package repository

import (
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

func (r *Repository) CreateRoster(roster *domain.RotationRoster) error {
	query := `
		INSERT INTO rotation_rosters (partnership_id, name, cycle_length_weeks, start_date, state, recurring, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		roster.PartnershipID,
		roster.Name,
		roster.CycleLengthWeeks,
		roster.StartDate,
		roster.State,
		roster.Recurring,
		roster.CreatedBy,
	}
	dst := []any{&roster.ID, &roster.CreatedAt, &roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRosterByID(id int64) (*domain.RotationRoster, error) {
	query := `
		SELECT partnership_id, name, cycle_length_weeks, start_date, state, recurring, created_by, created_at, version
		FROM rotation_rosters
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	roster := &domain.RotationRoster{
		ID: id,
	}

	dst := []any{
		&roster.PartnershipID,
		&roster.Name,
		&roster.CycleLengthWeeks,
		&roster.StartDate,
		&roster.State,
		&roster.Recurring,
		&roster.CreatedBy,
		&roster.CreatedAt,
		&roster.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *Repository) GetRostersByPartnershipID(partnershipID int64) ([]*domain.RotationRoster, error) {
	query := `
		SELECT id, name, cycle_length_weeks, start_date, state, recurring, created_by, created_at, version
		FROM rotation_rosters
		WHERE partnership_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, partnershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := []*domain.RotationRoster{}
	for rows.Next() {
		roster := domain.RotationRoster{
			PartnershipID: partnershipID,
		}
		dst := []any{
			&roster.ID,
			&roster.Name,
			&roster.CycleLengthWeeks,
			&roster.StartDate,
			&roster.State,
			&roster.Recurring,
			&roster.CreatedBy,
			&roster.CreatedAt,
			&roster.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rosters = append(rosters, &roster)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rosters, nil
}

// UpdateRoster writes the editable fields. State changes go through
// UpdateRosterState so transitions always carry the version check.
func (r *Repository) UpdateRoster(roster *domain.RotationRoster) error {
	query := `
		UPDATE rotation_rosters
		SET
			name = $1,
			cycle_length_weeks = $2,
			start_date = $3,
			recurring = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		roster.Name,
		roster.CycleLengthWeeks,
		roster.StartDate,
		roster.Recurring,
		roster.ID,
		roster.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&roster.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRosterState(roster *domain.RotationRoster, state domain.RosterState) error {
	query := `
		UPDATE rotation_rosters
		SET state = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, state, roster.ID, roster.Version).Scan(&roster.Version); err != nil {
		return err
	}
	roster.State = state

	return nil
}

// DeleteRoster removes the roster, its pattern and its ledger. Schedule
// entries produced by an activation are deliberately not touched.
func (r *Repository) DeleteRoster(id int64) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM week_assignments WHERE roster_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `DELETE FROM manager_approvals WHERE roster_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `DELETE FROM rotation_rosters WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
