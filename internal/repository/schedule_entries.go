package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/rotaworks/roster-engine/backend/internal/materializer"
	"github.com/rotaworks/roster-engine/backend/internal/swap"
)

// ReplaceEntriesForActivation performs the destructive replace of an
// activation and flips the roster to implemented, all inside one
// transaction: a failure anywhere rolls the whole horizon back and leaves
// the roster state untouched. Only work entries of the affected people
// inside the horizon are deleted; vacation, training and sick entries
// survive the replace.
func (r *Repository) ReplaceEntriesForActivation(roster *domain.RotationRoster, result *materializer.Result) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return &domain.MaterializationError{Stage: "begin", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM schedule_entries
		WHERE user_id = ANY($1)
		  AND date >= $2 AND date <= $3
		  AND kind = $4
	`
	if _, err := tx.ExecContext(ctx, query, result.AffectedUserIDs, result.Horizon.Start, result.Horizon.End, domain.EntryKindWork); err != nil {
		return &domain.MaterializationError{Stage: "delete", Err: err}
	}

	batchSize := r.cfg.Activation.InsertBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for offset := 0; offset < len(result.Entries); offset += batchSize {
		end := min(offset+batchSize, len(result.Entries))
		if err := insertEntryBatch(ctx, tx, result.Entries[offset:end]); err != nil {
			return &domain.MaterializationError{Stage: "insert", Err: err}
		}
	}

	query = `
		UPDATE rotation_rosters
		SET state = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, domain.RosterStateImplemented, roster.ID, roster.Version).Scan(&roster.Version); err != nil {
		return &domain.MaterializationError{Stage: "state transition", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.MaterializationError{Stage: "commit", Err: err}
	}
	roster.State = domain.RosterStateImplemented

	return nil
}

// insertEntryBatch writes one bounded multi-row INSERT. Columns per row: 10.
func insertEntryBatch(ctx context.Context, tx *sql.Tx, entries []*domain.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO schedule_entries (user_id, team_id, date, kind, shift_kind, start_time, end_time, note, source_roster_id, batch_id)
		VALUES `)

	params := make([]any, 0, len(entries)*10)
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 10
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10)
		params = append(params,
			entry.UserID,
			entry.TeamID,
			entry.Date,
			entry.Kind,
			entry.ShiftKind,
			entry.StartTime,
			entry.EndTime,
			entry.Note,
			entry.SourceRosterID,
			entry.BatchID,
		)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), params...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateScheduleEntry(entry *domain.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (user_id, team_id, date, kind, shift_kind, start_time, end_time, note, source_roster_id, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		entry.UserID,
		entry.TeamID,
		entry.Date,
		entry.Kind,
		entry.ShiftKind,
		entry.StartTime,
		entry.EndTime,
		entry.Note,
		entry.SourceRosterID,
		entry.BatchID,
	}
	dst := []any{&entry.ID, &entry.CreatedAt, &entry.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleEntryByID(id int64) (*domain.ScheduleEntry, error) {
	query := `
		SELECT user_id, team_id, date, kind, shift_kind, start_time, end_time, note, source_roster_id, batch_id, created_at, version
		FROM schedule_entries
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	entry := &domain.ScheduleEntry{
		ID: id,
	}

	dst := []any{
		&entry.UserID,
		&entry.TeamID,
		&entry.Date,
		&entry.Kind,
		&entry.ShiftKind,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Note,
		&entry.SourceRosterID,
		&entry.BatchID,
		&entry.CreatedAt,
		&entry.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetScheduleEntries lists entries in a date range, optionally filtered to
// one person or one team.
func (r *Repository) GetScheduleEntries(userID, teamID *int64, from, to time.Time) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT id, user_id, team_id, date, kind, shift_kind, start_time, end_time, note, source_roster_id, batch_id, created_at, version
		FROM schedule_entries
		WHERE date >= $1 AND date <= $2
		  AND ($3::bigint IS NULL OR user_id = $3)
		  AND ($4::bigint IS NULL OR team_id = $4)
		ORDER BY date, user_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to, userID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.ScheduleEntry{}
	for rows.Next() {
		var entry domain.ScheduleEntry
		dst := []any{
			&entry.ID,
			&entry.UserID,
			&entry.TeamID,
			&entry.Date,
			&entry.Kind,
			&entry.ShiftKind,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Note,
			&entry.SourceRosterID,
			&entry.BatchID,
			&entry.CreatedAt,
			&entry.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ApplySwapApproval commits the planned effect of an approved swap: both
// entry mutations and the request's status change in one transaction.
func (r *Repository) ApplySwapApproval(request *domain.SwapRequest, effect *swap.Effect, reviewerID int64, notes string) error {
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
		UPDATE schedule_entries
		SET
			user_id = $1,
			shift_kind = $2,
			start_time = $3,
			end_time = $4,
			version = version + 1
		WHERE id = $5
	`
	for _, update := range effect.Updates {
		if _, err := tx.ExecContext(ctx, query, update.UserID, update.ShiftKind, update.StartTime, update.EndTime, update.EntryID); err != nil {
			return err
		}
	}

	now := time.Now()
	query = `
		UPDATE swap_requests
		SET
			status = $1,
			reviewer_id = $2,
			review_notes = $3,
			reviewed_at = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, domain.SwapStatusApproved, reviewerID, notes, now, request.ID, request.Version).Scan(&request.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	request.Status = domain.SwapStatusApproved
	request.ReviewerID = &reviewerID
	request.ReviewNotes = &notes
	request.ReviewedAt = &now

	return nil
}
