package domain

// NotificationMessage is what gets published to the notification queue.
// Delivery is fire-and-forget; the api process never waits for the notifier.
type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	NotificationApprovalRequired = "approval_required"
	NotificationRosterRejected   = "roster_rejected"
	NotificationRosterActivated  = "roster_activated"
	NotificationSwapCreated      = "swap_created"
	NotificationUserInvited      = "user_invited"
)

type ApprovalRequiredData struct {
	ManagerName   string `json:"managerName"`
	RosterName    string `json:"rosterName"`
	SubmitterName string `json:"submitterName"`
}

type RosterRejectedData struct {
	PlannerName string `json:"plannerName"`
	RosterName  string `json:"rosterName"`
	ManagerName string `json:"managerName"`
	Comment     string `json:"comment"`
}

type RosterActivatedData struct {
	PlannerName string `json:"plannerName"`
	RosterName  string `json:"rosterName"`
	EntryCount  int    `json:"entryCount"`
}

type SwapCreatedData struct {
	TargetName    string `json:"targetName"`
	RequesterName string `json:"requesterName"`
	Date          string `json:"date"`
}

type UserInvitedData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}
