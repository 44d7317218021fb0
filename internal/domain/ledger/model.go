package ledger

import "time"

// Status represents the lifecycle state of a project.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusAssigned  Status = "ASSIGNED"
	StatusSubmitted Status = "SUBMITTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	// StatusDisputed is representable for forward compatibility, but no
	// transition in this ledger produces it.
	StatusDisputed Status = "DISPUTED"
)

// Project represents a freelance engagement with escrowed funds.
// Budget is fixed at creation; Freelancer is empty until assignment and
// never changes once set.
type Project struct {
	ID             uint64    `json:"id"`
	Client         string    `json:"client"`
	Freelancer     string    `json:"freelancer,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Budget         int64     `json:"budget"`
	Deadline       time.Time `json:"deadline"`
	Status         Status    `json:"status"`
	FundsDeposited bool      `json:"funds_deposited"`
	EscrowReceipt  string    `json:"escrow_receipt,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Settlement reports how a completed project's budget was disbursed.
type Settlement struct {
	ProjectID uint64 `json:"project_id"`
	Payout    int64  `json:"payout"`
	Fee       int64  `json:"fee"`
}

// Stats is a snapshot of ledger-wide counters.
type Stats struct {
	TotalProjects  uint64 `json:"total_projects"`
	PlatformFeePct uint8  `json:"platform_fee_pct"`
	Owner          string `json:"owner"`
}
