package repository

import (
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

// UpsertApprovalRecords writes the submission snapshot in one transaction.
// The (roster, manager, team) key makes a repeated submission idempotent:
// existing rows are reset instead of duplicated.
func (r *Repository) UpsertApprovalRecords(records []*domain.ApprovalRecord) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO manager_approvals (roster_id, team_id, manager_id, approved, approved_at, comment)
		VALUES ($1, $2, $3, $4, $5, '')
		ON CONFLICT (roster_id, manager_id, team_id)
		DO UPDATE SET
			approved = EXCLUDED.approved,
			approved_at = EXCLUDED.approved_at,
			comment = '',
			version = manager_approvals.version + 1
		RETURNING id, created_at, version
	`

	for _, record := range records {
		params := []any{
			record.RosterID,
			record.TeamID,
			record.ManagerID,
			record.Approved,
			record.ApprovedAt,
		}
		dst := []any{&record.ID, &record.CreatedAt, &record.Version}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
			return asConflict(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetApprovalsByRosterID(rosterID int64) ([]*domain.ApprovalRecord, error) {
	query := `
		SELECT id, team_id, manager_id, approved, approved_at, comment, created_at, version
		FROM manager_approvals
		WHERE roster_id = $1
		ORDER BY team_id, manager_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.ApprovalRecord{}
	for rows.Next() {
		record := domain.ApprovalRecord{
			RosterID: rosterID,
		}
		dst := []any{
			&record.ID,
			&record.TeamID,
			&record.ManagerID,
			&record.Approved,
			&record.ApprovedAt,
			&record.Comment,
			&record.CreatedAt,
			&record.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetApprovalByRosterAndManager(rosterID, managerID int64) (*domain.ApprovalRecord, error) {
	query := `
		SELECT id, team_id, approved, approved_at, comment, created_at, version
		FROM manager_approvals
		WHERE roster_id = $1 AND manager_id = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	record := &domain.ApprovalRecord{
		RosterID:  rosterID,
		ManagerID: managerID,
	}

	dst := []any{
		&record.ID,
		&record.TeamID,
		&record.Approved,
		&record.ApprovedAt,
		&record.Comment,
		&record.CreatedAt,
		&record.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, rosterID, managerID).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) UpdateApprovalRecord(record *domain.ApprovalRecord) error {
	query := `
		UPDATE manager_approvals
		SET
			approved = $1,
			approved_at = $2,
			comment = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		record.Approved,
		record.ApprovedAt,
		record.Comment,
		record.ID,
		record.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&record.Version); err != nil {
		return err
	}

	return nil
}
