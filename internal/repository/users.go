package repository

import (
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, role, team_id, country_code, region_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Role,
		user.TeamID,
		user.CountryCode,
		user.RegionCode,
	}
	dst := []any{&user.ID, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, team_id, country_code, region_code, is_active, created_at, version
		FROM users
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.TeamID,
		&user.CountryCode,
		&user.RegionCode,
		&user.IsActive,
		&user.CreatedAt,
		&user.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, team_id, country_code, region_code, is_active, created_at, version
		FROM users
		WHERE username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		Username: username,
	}

	dst := []any{
		&user.ID,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.TeamID,
		&user.CountryCode,
		&user.RegionCode,
		&user.IsActive,
		&user.CreatedAt,
		&user.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `
		SELECT id, username, full_name, email, role, team_id, country_code, region_code, is_active, created_at, version
		FROM users
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		var user domain.User
		dst := []any{
			&user.ID,
			&user.Username,
			&user.FullName,
			&user.Email,
			&user.Role,
			&user.TeamID,
			&user.CountryCode,
			&user.RegionCode,
			&user.IsActive,
			&user.CreatedAt,
			&user.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) UpdateUser(user *domain.User) error {
	query := `
		UPDATE users
		SET
			password_hash = $1,
			full_name = $2,
			email = $3,
			role = $4,
			team_id = $5,
			country_code = $6,
			region_code = $7,
			is_active = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Role,
		user.TeamID,
		user.CountryCode,
		user.RegionCode,
		user.IsActive,
		user.ID,
		user.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&user.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteUser(id int64) error {
	query := `
		DELETE FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) CreatePartnership(partnership *domain.Partnership) error {
	query := `
		INSERT INTO partnerships (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, partnership.Name).Scan(&partnership.ID, &partnership.CreatedAt, &partnership.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateTeam(team *domain.Team) error {
	query := `
		INSERT INTO teams (partnership_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, team.PartnershipID, team.Name).Scan(&team.ID, &team.CreatedAt, &team.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTeamIDsByPartnershipID(partnershipID int64) ([]int64, error) {
	query := `
		SELECT id FROM teams WHERE partnership_id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, partnershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamIDs := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teamIDs, nil
}

// GetPartnershipMembers is the person/team directory the engine consumes:
// every active user belonging to one of the partnership's teams.
func (r *Repository) GetPartnershipMembers(partnershipID int64) ([]*domain.PartnershipMember, error) {
	query := `
		SELECT u.id, u.team_id, u.full_name, u.email, u.country_code, u.region_code, u.role
		FROM users u
		JOIN teams t ON u.team_id = t.id
		WHERE t.partnership_id = $1 AND u.is_active = TRUE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, partnershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.PartnershipMember{}
	for rows.Next() {
		var member domain.PartnershipMember
		var role domain.Role
		dst := []any{
			&member.UserID,
			&member.TeamID,
			&member.FullName,
			&member.Email,
			&member.CountryCode,
			&member.RegionCode,
			&role,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		member.IsManager = role == domain.RoleManager
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
