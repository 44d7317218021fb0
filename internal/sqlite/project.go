package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ganot/gigledger/internal/domain/ledger"
	"github.com/ganot/gigledger/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create allocates the next project id and inserts the project row and the
// client reverse-index entry in one transaction
func (r *ProjectRepository) Create(ctx context.Context, proj *ledger.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var nextID uint64
	err = tx.QueryRowContext(ctx, `SELECT next_project_id FROM ledger_meta WHERE id = 1`).Scan(&nextID)
	if err != nil {
		return fmt.Errorf("failed to read allocation counter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, client, freelancer, title, description, budget, deadline, status, funds_deposited, escrow_receipt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nextID,
		proj.Client,
		proj.Freelancer,
		proj.Title,
		proj.Description,
		proj.Budget,
		proj.Deadline,
		string(proj.Status),
		proj.FundsDeposited,
		proj.EscrowReceipt,
		proj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO client_projects (client, project_id) VALUES (?, ?)`,
		proj.Client, nextID)
	if err != nil {
		return fmt.Errorf("failed to index client project: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE ledger_meta SET next_project_id = next_project_id + 1 WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to advance allocation counter: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	proj.ID = nextID
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id uint64) (*ledger.Project, error) {
	var proj ledger.Project
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, client, freelancer, title, description, budget, deadline, status, funds_deposited, escrow_receipt, created_at
		FROM projects
		WHERE id = ?`, id).Scan(
		&proj.ID,
		&proj.Client,
		&proj.Freelancer,
		&proj.Title,
		&proj.Description,
		&proj.Budget,
		&proj.Deadline,
		&status,
		&proj.FundsDeposited,
		&proj.EscrowReceipt,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ledger.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.Status = ledger.Status(status)
	return &proj, nil
}

// Update persists status and funds-deposited changes
func (r *ProjectRepository) Update(ctx context.Context, proj *ledger.Project) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, funds_deposited = ? WHERE id = ?`,
		string(proj.Status), proj.FundsDeposited, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ledger.ErrProjectNotFound
	}

	return nil
}

// Assign persists the freelancer assignment and appends the freelancer
// reverse index in one transaction
func (r *ProjectRepository) Assign(ctx context.Context, proj *ledger.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE projects SET freelancer = ?, status = ? WHERE id = ?`,
		proj.Freelancer, string(proj.Status), proj.ID)
	if err != nil {
		return fmt.Errorf("failed to assign freelancer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ledger.ErrProjectNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO freelancer_projects (freelancer, project_id) VALUES (?, ?)`,
		proj.Freelancer, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to index freelancer project: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Count returns the number of projects ever allocated
func (r *ProjectRepository) Count(ctx context.Context) (uint64, error) {
	var nextID uint64
	err := r.db.QueryRowContext(ctx, `SELECT next_project_id FROM ledger_meta WHERE id = 1`).Scan(&nextID)
	if err != nil {
		return 0, fmt.Errorf("failed to read allocation counter: %w", err)
	}
	return nextID - 1, nil
}

// AddBid appends a bidder to a project's bid list
func (r *ProjectRepository) AddBid(ctx context.Context, id uint64, bidder string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bids (project_id, bidder) VALUES (?, ?)`, id, bidder)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to add bid: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// Bids returns a project's bidders in insertion order
func (r *ProjectRepository) Bids(ctx context.Context, id uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT bidder FROM bids WHERE project_id = ? ORDER BY rowid ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bidders []string
	for rows.Next() {
		var bidder string
		if err := rows.Scan(&bidder); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bidders = append(bidders, bidder)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bid rows: %w", err)
	}

	return bidders, nil
}

// ClientProjects returns project ids created by the client, in creation order
func (r *ProjectRepository) ClientProjects(ctx context.Context, client string) ([]uint64, error) {
	return r.projectIDs(ctx,
		`SELECT project_id FROM client_projects WHERE client = ? ORDER BY rowid ASC`, client)
}

// FreelancerProjects returns project ids assigned to the freelancer, in
// assignment order
func (r *ProjectRepository) FreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error) {
	return r.projectIDs(ctx,
		`SELECT project_id FROM freelancer_projects WHERE freelancer = ? ORDER BY rowid ASC`, freelancer)
}

func (r *ProjectRepository) projectIDs(ctx context.Context, query, actor string) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, query, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return ids, nil
}

// PlatformFee returns the current fee percentage
func (r *ProjectRepository) PlatformFee(ctx context.Context) (uint8, error) {
	var pct uint8
	err := r.db.QueryRowContext(ctx, `SELECT platform_fee_pct FROM ledger_meta WHERE id = 1`).Scan(&pct)
	if err != nil {
		return 0, fmt.Errorf("failed to read platform fee: %w", err)
	}
	return pct, nil
}

// SetPlatformFee updates the fee percentage
func (r *ProjectRepository) SetPlatformFee(ctx context.Context, pct uint8) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ledger_meta SET platform_fee_pct = ? WHERE id = 1`, pct)
	if err != nil {
		return fmt.Errorf("failed to set platform fee: %w", err)
	}
	return nil
}
