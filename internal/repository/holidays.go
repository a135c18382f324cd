package repository

import (
	"time"

	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

func (r *Repository) CreateHoliday(holiday *domain.Holiday) error {
	query := `
		INSERT INTO holidays (name, date, country_code, region_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		holiday.Name,
		holiday.Date,
		holiday.CountryCode,
		holiday.RegionCode,
	}
	dst := []any{&holiday.ID, &holiday.CreatedAt, &holiday.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetHolidaysInRange returns every country's holidays in the range; the
// materializer applies the per-person country/region match itself.
func (r *Repository) GetHolidaysInRange(from, to time.Time) ([]*domain.Holiday, error) {
	query := `
		SELECT id, name, date, country_code, region_code, created_at, version
		FROM holidays
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []*domain.Holiday{}
	for rows.Next() {
		var holiday domain.Holiday
		dst := []any{
			&holiday.ID,
			&holiday.Name,
			&holiday.Date,
			&holiday.CountryCode,
			&holiday.RegionCode,
			&holiday.CreatedAt,
			&holiday.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		holidays = append(holidays, &holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

// GetHolidays serves the holiday query of the external data contract:
// country plus optional region, date-range filtered.
func (r *Repository) GetHolidays(countryCode string, regionCode *string, from, to time.Time) ([]*domain.Holiday, error) {
	query := `
		SELECT id, name, date, country_code, region_code, created_at, version
		FROM holidays
		WHERE country_code = $1
		  AND (region_code IS NULL OR $2::text IS NULL OR region_code = $2)
		  AND date >= $3 AND date <= $4
		ORDER BY date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, countryCode, regionCode, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []*domain.Holiday{}
	for rows.Next() {
		var holiday domain.Holiday
		dst := []any{
			&holiday.ID,
			&holiday.Name,
			&holiday.Date,
			&holiday.CountryCode,
			&holiday.RegionCode,
			&holiday.CreatedAt,
			&holiday.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		holidays = append(holidays, &holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

func (r *Repository) DeleteHoliday(id int64) error {
	query := `
		DELETE FROM holidays WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
