package domain

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusApproved  SwapStatus = "approved"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusExpired   SwapStatus = "expired"
)

// SwapRequest is an offered shift exchange. A nil TargetUserID/TargetEntryID
// pair is an open offer that any teammate may claim before review. CrossTeam
// is set when the two entries belong to different teams, for manager
// visibility.
type SwapRequest struct {
	ID             int64      `json:"id"`
	RequesterID    int64      `json:"requesterID"`
	OfferedEntryID int64      `json:"offeredEntryID"`
	TargetUserID   *int64     `json:"targetUserID"`
	TargetEntryID  *int64     `json:"targetEntryID"`
	Date           time.Time  `json:"date"`
	Reason         string     `json:"reason"`
	Status         SwapStatus `json:"status"`
	CrossTeam      bool       `json:"crossTeam"`
	ReviewerID     *int64     `json:"reviewerID"`
	ReviewNotes    *string    `json:"reviewNotes"`
	ReviewedAt     *time.Time `json:"reviewedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int32      `json:"-"`
}

func (s *SwapRequest) IsOpenOffer() bool {
	return s.TargetEntryID == nil
}
