package repository

import (
	"context"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
)

// ProjectRepository manages project, bid, reverse-index, and platform-fee
// persistence.
type ProjectRepository interface {
	Create(ctx context.Context, proj *ledger.Project) error
	Get(ctx context.Context, id uint64) (*ledger.Project, error)
	Update(ctx context.Context, proj *ledger.Project) error
	Assign(ctx context.Context, proj *ledger.Project) error
	Count(ctx context.Context) (uint64, error)

	AddBid(ctx context.Context, id uint64, bidder string) error
	Bids(ctx context.Context, id uint64) ([]string, error)

	ClientProjects(ctx context.Context, client string) ([]uint64, error)
	FreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error)

	PlatformFee(ctx context.Context) (uint8, error)
	SetPlatformFee(ctx context.Context, pct uint8) error
}

// EventRepository manages event log persistence.
type EventRepository interface {
	Log(ctx context.Context, e *event.Event) error
	List(ctx context.Context, opts event.ListOptions) ([]event.Event, error)
}

// CustodyRepository manages escrow account balances and the transfer journal.
type CustodyRepository interface {
	HoldDeposit(ctx context.Context, payer string, amount int64) (string, error)
	Disburse(ctx context.Context, recipient string, payout int64, feeAccount string, fee int64) error
	Refund(ctx context.Context, recipient string, amount int64) error
	Credit(ctx context.Context, account string, amount int64) error
	Balance(ctx context.Context, account string) (int64, error)
	EscrowBalance(ctx context.Context) (int64, error)
}
