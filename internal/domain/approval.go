package domain

import "time"

// ApprovalRecord is one ledger row per (roster, manager, team). The triple
// is unique in the store; submissions upsert against it so a re-submission
// never duplicates rows.
type ApprovalRecord struct {
	ID         int64      `json:"id"`
	RosterID   int64      `json:"rosterID"`
	TeamID     int64      `json:"teamID"`
	ManagerID  int64      `json:"managerID"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approvedAt"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt"`
	Version    int32      `json:"-"`
}
