package ledger

import (
	"context"

	"github.com/ganot/gigledger/internal/domain/event"
)

// Repository provides persistence for projects, bids, reverse indexes, and
// the platform fee. Project rows are never deleted; every allocated id stays
// queryable regardless of terminal status.
type Repository interface {
	// Create allocates the next project id and persists the project
	// atomically, setting proj.ID. The client reverse index is appended in
	// the same transaction.
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id uint64) (*Project, error)
	// Update persists status and funds-deposited changes for an existing
	// project.
	Update(ctx context.Context, proj *Project) error
	// Assign persists the freelancer and status change and appends the
	// freelancer reverse index in one transaction.
	Assign(ctx context.Context, proj *Project) error
	Count(ctx context.Context) (uint64, error)

	AddBid(ctx context.Context, id uint64, bidder string) error
	Bids(ctx context.Context, id uint64) ([]string, error)

	ClientProjects(ctx context.Context, client string) ([]uint64, error)
	FreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error)

	PlatformFee(ctx context.Context) (uint8, error)
	SetPlatformFee(ctx context.Context, pct uint8) error
}

// Custody is the external funds-custody collaborator. The ledger only tracks
// accounting state; custody actually moves value. Every call is failable and
// the ledger must not commit a transition whose custody calls did not all
// succeed.
type Custody interface {
	HoldDeposit(ctx context.Context, payer string, amount int64) (receipt string, err error)
	// Disburse releases payout to the recipient and fee to the fee account
	// as one atomic movement out of escrow. A fee of zero pays the
	// recipient only.
	Disburse(ctx context.Context, recipient string, payout int64, feeAccount string, fee int64) error
	Refund(ctx context.Context, recipient string, amount int64) error
}

// EventRepository records ledger events after successful commits.
type EventRepository interface {
	Log(ctx context.Context, e *event.Event) error
}
