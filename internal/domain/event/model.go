package event

import "time"

// Type identifies a ledger event.
type Type string

const (
	TypeProjectCreated     Type = "project_created"
	TypeBidSubmitted       Type = "bid_submitted"
	TypeFreelancerAssigned Type = "freelancer_assigned"
	TypeWorkSubmitted      Type = "work_submitted"
	TypeProjectCompleted   Type = "project_completed"
	TypeProjectCancelled   Type = "project_cancelled"
)

// Event is an append-only record of a committed ledger transition. Amount is
// the budget for creation and cancellation events and the freelancer payout
// for completion events; zero otherwise.
type Event struct {
	ID        string    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	Type      Type      `json:"type"`
	Actor     string    `json:"actor"`
	Amount    int64     `json:"amount,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
