package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/google/uuid"
)

// Service is the project-escrow ledger. It owns every state transition and
// enforces authorization and escrow-balance invariants. Transitions are
// serialized by an internal mutex so each precondition-check-then-mutate
// sequence observes consistent state.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	custody Custody
	events  EventRepository
	owner   string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock used for deadline checks.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new ledger service. The owner identity is fixed for
// the service's lifetime.
func NewService(repo Repository, custody Custody, events EventRepository, owner string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:    repo,
		custody: custody,
		events:  events,
		owner:   owner,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProjectRequest describes a project creation request. Budget is the
// amount the caller deposits into escrow.
type CreateProjectRequest struct {
	Title       string
	Description string
	Budget      int64
	Deadline    time.Time
}

// CreateProject holds the caller's deposit in escrow and records a new open
// project. If the deposit cannot be held, no project is recorded; if the
// record cannot be written, the deposit is refunded.
func (s *Service) CreateProject(ctx context.Context, caller string, req CreateProjectRequest) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := ValidateCreateInput(req, now); err != nil {
		return nil, err
	}

	receipt, err := s.custody.HoldDeposit(ctx, caller, req.Budget)
	if err != nil {
		return nil, fmt.Errorf("%w: holding deposit: %v", ErrCustody, err)
	}

	proj := &Project{
		Client:         caller,
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		Deadline:       req.Deadline,
		Status:         StatusOpen,
		FundsDeposited: true,
		EscrowReceipt:  receipt,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if refundErr := s.custody.Refund(ctx, caller, req.Budget); refundErr != nil {
			s.logger.Error("failed to refund deposit after create failure",
				"client", caller, "amount", req.Budget, "error", refundErr)
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: proj.ID,
		Type:      event.TypeProjectCreated,
		Actor:     caller,
		Amount:    proj.Budget,
	})

	return proj, nil
}

// SubmitBid appends the caller to the project's bid list.
func (s *Service) SubmitBid(ctx context.Context, caller string, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireStatus(proj, StatusOpen); err != nil {
		return err
	}
	if caller == proj.Client {
		return ErrSelfBid
	}
	if !s.now().Before(proj.Deadline) {
		return ErrDeadlinePassed
	}

	bids, err := s.repo.Bids(ctx, id)
	if err != nil {
		return fmt.Errorf("loading bids: %w", err)
	}
	if containsBidder(bids, caller) {
		return ErrDuplicateBid
	}

	if err := s.repo.AddBid(ctx, id, caller); err != nil {
		return fmt.Errorf("adding bid: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: id,
		Type:      event.TypeBidSubmitted,
		Actor:     caller,
	})

	return nil
}

// AssignFreelancer awards an open project to one of its bidders. Only the
// client may assign, and only to an identity present in the bid list.
func (s *Service) AssignFreelancer(ctx context.Context, caller string, id uint64, freelancer string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireClient(proj, caller); err != nil {
		return nil, err
	}
	if err := requireStatus(proj, StatusOpen); err != nil {
		return nil, err
	}
	if freelancer == "" {
		return nil, ErrEmptyFreelancer
	}
	if freelancer == proj.Client {
		return nil, ErrSelfAssignment
	}

	bids, err := s.repo.Bids(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading bids: %w", err)
	}
	if !containsBidder(bids, freelancer) {
		return nil, ErrNotABidder
	}

	proj.Freelancer = freelancer
	proj.Status = StatusAssigned
	if err := s.repo.Assign(ctx, proj); err != nil {
		return nil, fmt.Errorf("assigning freelancer: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: id,
		Type:      event.TypeFreelancerAssigned,
		Actor:     freelancer,
	})

	return proj, nil
}

// SubmitWork marks the assigned freelancer's work as delivered.
func (s *Service) SubmitWork(ctx context.Context, caller string, id uint64) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireFreelancer(proj, caller); err != nil {
		return nil, err
	}
	if err := requireStatus(proj, StatusAssigned); err != nil {
		return nil, err
	}
	if s.now().After(proj.Deadline) {
		return nil, ErrDeadlinePassed
	}

	proj.Status = StatusSubmitted
	if err := s.repo.Update(ctx, proj); err != nil {
		return nil, fmt.Errorf("submitting work: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: id,
		Type:      event.TypeWorkSubmitted,
		Actor:     caller,
	})

	return proj, nil
}

// CompleteProject accepts submitted work, pays the freelancer the budget
// minus the platform fee, and pays the fee to the owner. Both payments move
// in one custody disbursement, so a custody failure leaves the full budget in
// escrow and a retry cannot pay anyone twice. The status change is persisted
// only after the disbursement succeeds; if persisting fails, the disbursed
// amounts are pulled back into escrow.
func (s *Service) CompleteProject(ctx context.Context, caller string, id uint64) (*Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireClient(proj, caller); err != nil {
		return nil, err
	}
	if err := requireStatus(proj, StatusSubmitted); err != nil {
		return nil, err
	}
	if !proj.FundsDeposited {
		return nil, ErrInvalidState
	}

	pct, err := s.repo.PlatformFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading platform fee: %w", err)
	}
	payout, fee := FeeSplit(proj.Budget, pct)

	if err := s.custody.Disburse(ctx, proj.Freelancer, payout, s.owner, fee); err != nil {
		return nil, fmt.Errorf("%w: disbursing escrow: %v", ErrCustody, err)
	}

	proj.Status = StatusCompleted
	proj.FundsDeposited = false
	if err := s.repo.Update(ctx, proj); err != nil {
		s.reclaimDisbursement(ctx, proj.Freelancer, payout, fee)
		return nil, fmt.Errorf("completing project: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: id,
		Type:      event.TypeProjectCompleted,
		Actor:     proj.Freelancer,
		Amount:    payout,
	})

	return &Settlement{ProjectID: id, Payout: payout, Fee: fee}, nil
}

// CancelProject withdraws an open project and refunds the full budget to the
// client. Once a freelancer is assigned the client can no longer cancel.
func (s *Service) CancelProject(ctx context.Context, caller string, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireClient(proj, caller); err != nil {
		return err
	}
	if err := requireStatus(proj, StatusOpen); err != nil {
		return err
	}
	if !proj.FundsDeposited {
		return ErrInvalidState
	}

	if err := s.custody.Refund(ctx, proj.Client, proj.Budget); err != nil {
		return fmt.Errorf("%w: refunding client: %v", ErrCustody, err)
	}

	proj.Status = StatusCancelled
	proj.FundsDeposited = false
	if err := s.repo.Update(ctx, proj); err != nil {
		return fmt.Errorf("cancelling project: %w", err)
	}

	s.emit(ctx, &event.Event{
		ProjectID: id,
		Type:      event.TypeProjectCancelled,
		Actor:     proj.Client,
		Amount:    proj.Budget,
	})

	return nil
}

// UpdatePlatformFee sets the process-wide fee percentage. Owner only.
func (s *Service) UpdatePlatformFee(ctx context.Context, caller string, pct uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return ErrUnauthorized
	}
	if pct > 10 {
		return ErrFeeOutOfRange
	}
	if err := s.repo.SetPlatformFee(ctx, pct); err != nil {
		return fmt.Errorf("setting platform fee: %w", err)
	}
	return nil
}

// GetProject returns a project by id.
func (s *Service) GetProject(ctx context.Context, id uint64) (*Project, error) {
	return s.get(ctx, id)
}

// GetProjectBids returns the insertion-ordered bid list for a project.
func (s *Service) GetProjectBids(ctx context.Context, id uint64) ([]string, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	bids, err := s.repo.Bids(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading bids: %w", err)
	}
	return bids, nil
}

// GetClientProjects returns the ids of projects created by the client, in
// creation order.
func (s *Service) GetClientProjects(ctx context.Context, client string) ([]uint64, error) {
	return s.repo.ClientProjects(ctx, client)
}

// GetFreelancerProjects returns the ids of projects assigned to the
// freelancer, in assignment order.
func (s *Service) GetFreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error) {
	return s.repo.FreelancerProjects(ctx, freelancer)
}

// TotalProjects returns the number of projects ever created.
func (s *Service) TotalProjects(ctx context.Context) (uint64, error) {
	return s.repo.Count(ctx)
}

// PlatformFee returns the current fee percentage.
func (s *Service) PlatformFee(ctx context.Context) (uint8, error) {
	return s.repo.PlatformFee(ctx)
}

// Owner returns the fixed ledger owner identity.
func (s *Service) Owner() string {
	return s.owner
}

// GetStats returns ledger-wide counters.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting projects: %w", err)
	}
	pct, err := s.repo.PlatformFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading platform fee: %w", err)
	}
	return &Stats{TotalProjects: total, PlatformFeePct: pct, Owner: s.owner}, nil
}

// reclaimDisbursement pulls a completed disbursement back into escrow after
// the status change failed to persist. Without it a retry would disburse the
// same budget twice.
func (s *Service) reclaimDisbursement(ctx context.Context, freelancer string, payout, fee int64) {
	if _, err := s.custody.HoldDeposit(ctx, freelancer, payout); err != nil {
		s.logger.Error("failed to reclaim freelancer payout after persist failure",
			"freelancer", freelancer, "amount", payout, "error", err)
	}
	if fee > 0 {
		if _, err := s.custody.HoldDeposit(ctx, s.owner, fee); err != nil {
			s.logger.Error("failed to reclaim owner fee after persist failure",
				"owner", s.owner, "amount", fee, "error", err)
		}
	}
}

func (s *Service) get(ctx context.Context, id uint64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// emit records an event after a committed transition. Event logging is an
// observational side channel and never fails the transition.
func (s *Service) emit(ctx context.Context, e *event.Event) {
	if s.events == nil {
		return
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.now()
	if err := s.events.Log(ctx, e); err != nil {
		s.logger.Warn("failed to log ledger event", "type", e.Type, "project", e.ProjectID, "error", err)
	}
}
