package testserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
	"github.com/ganot/gigledger/internal/sqlite"
	"github.com/ganot/gigledger/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer wires a fully migrated in-memory ledger behind a real HTTP
// server, with direct service handles for seeding state.
type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Ledger  *ledger.Service
	Events  *event.Service
	Custody *sqlite.CustodyLedger
	Owner   string
}

func New(t *testing.T, owner string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	custody := sqlite.NewCustodyLedger(db)

	logger := slog.New(slog.DiscardHandler)
	ledgerSvc := ledger.NewService(projectRepo, custody, eventRepo, owner, logger)
	eventSvc := event.NewService(eventRepo, logger)

	handler := transport.NewHandler(ledgerSvc, eventSvc, custody, logger)
	server := httptest.NewServer(transport.NewRouter(handler))

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Ledger:  ledgerSvc,
		Events:  eventSvc,
		Custody: custody,
		Owner:   owner,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Fund credits an account so it can cover escrow deposits.
func (ts *TestServer) Fund(t *testing.T, account string, amount int64) {
	t.Helper()
	require.NoError(t, ts.Custody.Credit(context.Background(), account, amount))
}
