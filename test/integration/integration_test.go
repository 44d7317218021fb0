package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
	"github.com/ganot/gigledger/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const owner = "platform-owner"

type testEnv struct {
	db      *sqlite.DB
	custody *sqlite.CustodyLedger

	ledgerSvc *ledger.Service
	eventSvc  *event.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	custody := sqlite.NewCustodyLedger(db)

	return &testEnv{
		db:        db,
		custody:   custody,
		ledgerSvc: ledger.NewService(projectRepo, custody, eventRepo, owner, nil),
		eventSvc:  event.NewService(eventRepo, nil),
	}
}

func (env *testEnv) fund(t *testing.T, account string, amount int64) {
	t.Helper()
	require.NoError(t, env.custody.Credit(context.Background(), account, amount))
}

func createRequest(budget int64) ledger.CreateProjectRequest {
	return ledger.CreateProjectRequest{
		Title:       "Data pipeline",
		Description: "Nightly export from the warehouse",
		Budget:      budget,
		Deadline:    time.Now().Add(48 * time.Hour),
	}
}

func TestIntegration_CompletionWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 1000)

	proj, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(1000))
	require.NoError(t, err)
	require.Equal(t, uint64(1), proj.ID)
	require.NotEmpty(t, proj.EscrowReceipt)

	escrow, err := env.custody.EscrowBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1000), escrow)

	require.NoError(t, env.ledgerSvc.SubmitBid(ctx, "freelancer1", proj.ID))
	require.NoError(t, env.ledgerSvc.SubmitBid(ctx, "freelancer2", proj.ID))

	assigned, err := env.ledgerSvc.AssignFreelancer(ctx, "client1", proj.ID, "freelancer2")
	require.NoError(t, err)
	require.Equal(t, ledger.StatusAssigned, assigned.Status)

	_, err = env.ledgerSvc.SubmitWork(ctx, "freelancer2", proj.ID)
	require.NoError(t, err)

	settlement, err := env.ledgerSvc.CompleteProject(ctx, "client1", proj.ID)
	require.NoError(t, err)
	require.Equal(t, int64(950), settlement.Payout)
	require.Equal(t, int64(50), settlement.Fee)

	// Every unit of the budget landed somewhere and escrow is drained.
	freelancerBalance, err := env.custody.Balance(ctx, "freelancer2")
	require.NoError(t, err)
	require.Equal(t, int64(950), freelancerBalance)

	ownerBalance, err := env.custody.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, int64(50), ownerBalance)

	escrow, err = env.custody.EscrowBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), escrow)

	got, err := env.ledgerSvc.GetProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCompleted, got.Status)
	require.False(t, got.FundsDeposited)

	ids, err := env.ledgerSvc.GetFreelancerProjects(ctx, "freelancer2")
	require.NoError(t, err)
	require.Equal(t, []uint64{proj.ID}, ids)
}

func TestIntegration_CancellationWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 500)

	proj, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(500))
	require.NoError(t, err)

	require.NoError(t, env.ledgerSvc.CancelProject(ctx, "client1", proj.ID))

	balance, err := env.custody.Balance(ctx, "client1")
	require.NoError(t, err)
	require.Equal(t, int64(500), balance)

	// Terminal state: no bids, no second cancel, but still queryable.
	require.ErrorIs(t, env.ledgerSvc.SubmitBid(ctx, "freelancer1", proj.ID), ledger.ErrInvalidState)
	require.ErrorIs(t, env.ledgerSvc.CancelProject(ctx, "client1", proj.ID), ledger.ErrInvalidState)

	got, err := env.ledgerSvc.GetProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCancelled, got.Status)
}

func TestIntegration_DepositFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 100)

	_, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(1000))
	require.ErrorIs(t, err, ledger.ErrCustody)

	total, err := env.ledgerSvc.TotalProjects(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	balance, err := env.custody.Balance(ctx, "client1")
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)
}

func TestIntegration_FeeChangeAppliesAtCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 1000)

	proj, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(1000))
	require.NoError(t, err)
	require.NoError(t, env.ledgerSvc.SubmitBid(ctx, "freelancer1", proj.ID))
	_, err = env.ledgerSvc.AssignFreelancer(ctx, "client1", proj.ID, "freelancer1")
	require.NoError(t, err)
	_, err = env.ledgerSvc.SubmitWork(ctx, "freelancer1", proj.ID)
	require.NoError(t, err)

	// The fee in force at completion time wins, not the one at creation.
	require.NoError(t, env.ledgerSvc.UpdatePlatformFee(ctx, owner, 10))

	settlement, err := env.ledgerSvc.CompleteProject(ctx, "client1", proj.ID)
	require.NoError(t, err)
	require.Equal(t, int64(900), settlement.Payout)
	require.Equal(t, int64(100), settlement.Fee)
}

func TestIntegration_EventTrail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 1000)

	proj, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(1000))
	require.NoError(t, err)
	require.NoError(t, env.ledgerSvc.SubmitBid(ctx, "freelancer1", proj.ID))
	_, err = env.ledgerSvc.AssignFreelancer(ctx, "client1", proj.ID, "freelancer1")
	require.NoError(t, err)
	_, err = env.ledgerSvc.SubmitWork(ctx, "freelancer1", proj.ID)
	require.NoError(t, err)
	_, err = env.ledgerSvc.CompleteProject(ctx, "client1", proj.ID)
	require.NoError(t, err)

	events, err := env.eventSvc.Recent(ctx, event.ListOptions{ProjectID: &proj.ID})
	require.NoError(t, err)
	require.Len(t, events, 5)

	var types []event.Type
	for _, e := range events {
		types = append(types, e.Type)
	}
	require.Equal(t, []event.Type{
		event.TypeProjectCreated,
		event.TypeBidSubmitted,
		event.TypeFreelancerAssigned,
		event.TypeWorkSubmitted,
		event.TypeProjectCompleted,
	}, types)
}

func TestIntegration_IDsSurviveAcrossProjects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, "client1", 2000)

	first, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(500))
	require.NoError(t, err)
	require.NoError(t, env.ledgerSvc.CancelProject(ctx, "client1", first.ID))

	// Cancelled projects keep their slot; ids are never reused.
	second, err := env.ledgerSvc.CreateProject(ctx, "client1", createRequest(500))
	require.NoError(t, err)
	require.Equal(t, first.ID+1, second.ID)

	total, err := env.ledgerSvc.TotalProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), total)
}
