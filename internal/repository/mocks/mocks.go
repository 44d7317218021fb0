package mocks

import (
	"context"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *ledger.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id uint64) (*ledger.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*ledger.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *ledger.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Assign(ctx context.Context, proj *ledger.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *ProjectRepository) AddBid(ctx context.Context, id uint64, bidder string) error {
	args := m.Called(ctx, id, bidder)
	return args.Error(0)
}

func (m *ProjectRepository) Bids(ctx context.Context, id uint64) ([]string, error) {
	args := m.Called(ctx, id)
	if bids, ok := args.Get(0).([]string); ok {
		return bids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ClientProjects(ctx context.Context, client string) ([]uint64, error) {
	args := m.Called(ctx, client)
	if ids, ok := args.Get(0).([]uint64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) FreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error) {
	args := m.Called(ctx, freelancer)
	if ids, ok := args.Get(0).([]uint64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) PlatformFee(ctx context.Context) (uint8, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint8), args.Error(1)
}

func (m *ProjectRepository) SetPlatformFee(ctx context.Context, pct uint8) error {
	args := m.Called(ctx, pct)
	return args.Error(0)
}

// EventRepository is a mock for repository.EventRepository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Log(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EventRepository) List(ctx context.Context, opts event.ListOptions) ([]event.Event, error) {
	args := m.Called(ctx, opts)
	if events, ok := args.Get(0).([]event.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

// Custody is a mock for the ledger's funds-custody collaborator.
type Custody struct {
	mock.Mock
}

func (m *Custody) HoldDeposit(ctx context.Context, payer string, amount int64) (string, error) {
	args := m.Called(ctx, payer, amount)
	return args.String(0), args.Error(1)
}

func (m *Custody) Disburse(ctx context.Context, recipient string, payout int64, feeAccount string, fee int64) error {
	args := m.Called(ctx, recipient, payout, feeAccount, fee)
	return args.Error(0)
}

func (m *Custody) Refund(ctx context.Context, recipient string, amount int64) error {
	args := m.Called(ctx, recipient, amount)
	return args.Error(0)
}
