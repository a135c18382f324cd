package domain

import "time"

type Role string

const (
	RoleEmployee      Role = "employee"
	RoleManager       Role = "manager"
	RoleAdministrator Role = "administrator"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	TeamID       *int64    `json:"teamID"`
	CountryCode  string    `json:"countryCode"`
	RegionCode   *string   `json:"regionCode"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// HasManagerFlag reports whether the user counts as a team manager for
// approval-ledger purposes. Administrators do not implicitly manage teams.
func (u *User) HasManagerFlag() bool {
	return u.Role == RoleManager
}

type Partnership struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Team struct {
	ID            int64     `json:"id"`
	PartnershipID int64     `json:"partnershipID"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}

// PartnershipMember is one row of the person/team directory for a
// partnership, the shape the engine consumes during submission and
// materialization.
type PartnershipMember struct {
	UserID      int64   `json:"userID"`
	TeamID      int64   `json:"teamID"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	CountryCode string  `json:"countryCode"`
	RegionCode  *string `json:"regionCode"`
	IsManager   bool    `json:"isManager"`
}
