package repository

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

func (r *Repository) CreateSwapRequest(request *domain.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (requester_id, offered_entry_id, target_user_id, target_entry_id, date, reason, status, cross_team)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		request.RequesterID,
		request.OfferedEntryID,
		request.TargetUserID,
		request.TargetEntryID,
		request.Date,
		request.Reason,
		request.Status,
		request.CrossTeam,
	}
	dst := []any{&request.ID, &request.CreatedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSwapRequestByID(id int64) (*domain.SwapRequest, error) {
	query := `
		SELECT requester_id, offered_entry_id, target_user_id, target_entry_id, date, reason, status, cross_team, reviewer_id, review_notes, reviewed_at, created_at, version
		FROM swap_requests
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	request := &domain.SwapRequest{
		ID: id,
	}

	dst := []any{
		&request.RequesterID,
		&request.OfferedEntryID,
		&request.TargetUserID,
		&request.TargetEntryID,
		&request.Date,
		&request.Reason,
		&request.Status,
		&request.CrossTeam,
		&request.ReviewerID,
		&request.ReviewNotes,
		&request.ReviewedAt,
		&request.CreatedAt,
		&request.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

// GetSwapRequestsForUser lists requests the user is involved in, plus any
// still-unclaimed open offers, newest first.
func (r *Repository) GetSwapRequestsForUser(userID int64) ([]*domain.SwapRequest, error) {
	query := `
		SELECT id, requester_id, offered_entry_id, target_user_id, target_entry_id, date, reason, status, cross_team, reviewer_id, review_notes, reviewed_at, created_at, version
		FROM swap_requests
		WHERE requester_id = $1
		   OR target_user_id = $1
		   OR (target_entry_id IS NULL AND status = $2)
		ORDER BY created_at DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, domain.SwapStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.SwapRequest{}
	for rows.Next() {
		var request domain.SwapRequest
		dst := []any{
			&request.ID,
			&request.RequesterID,
			&request.OfferedEntryID,
			&request.TargetUserID,
			&request.TargetEntryID,
			&request.Date,
			&request.Reason,
			&request.Status,
			&request.CrossTeam,
			&request.ReviewerID,
			&request.ReviewNotes,
			&request.ReviewedAt,
			&request.CreatedAt,
			&request.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// HasPendingSwapForEntry implements the no-double-offering rule: is the
// entry already the offered or target side of another pending request?
func (r *Repository) HasPendingSwapForEntry(entryID int64, excludeRequestID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM swap_requests
			WHERE status = $1
			  AND id <> $2
			  AND (offered_entry_id = $3 OR target_entry_id = $3)
		)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, domain.SwapStatusPending, excludeRequestID, entryID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// UpdateSwapRequest writes status, target and review fields under the
// version check.
func (r *Repository) UpdateSwapRequest(request *domain.SwapRequest) error {
	query := `
		UPDATE swap_requests
		SET
			target_user_id = $1,
			target_entry_id = $2,
			status = $3,
			cross_team = $4,
			reviewer_id = $5,
			review_notes = $6,
			reviewed_at = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		request.TargetUserID,
		request.TargetEntryID,
		request.Status,
		request.CrossTeam,
		request.ReviewerID,
		request.ReviewNotes,
		request.ReviewedAt,
		request.ID,
		request.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&request.Version); err != nil {
		return err
	}

	return nil
}

// ExpireStaleSwapRequests lazily flips pending requests whose date has
// passed to expired. Called before listings so the UI never shows actionable
// requests for days already worked.
func (r *Repository) ExpireStaleSwapRequests(now time.Time) error {
	query := `
		UPDATE swap_requests
		SET status = $1, version = version + 1
		WHERE status = $2 AND date < $3
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if _, err := r.dbpool.ExecContext(ctx, query, domain.SwapStatusExpired, domain.SwapStatusPending, today); err != nil {
		return err
	}

	return nil
}
