package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/gigledger/internal/repository"
	"github.com/google/uuid"
)

// escrowAccount is the internal pool holding all deposited project budgets.
const escrowAccount = "__escrow__"

// CustodyLedger implements the funds-custody collaborator on SQLite account
// rows. Every movement is journaled and balances can never go negative.
type CustodyLedger struct {
	db *DB
}

// NewCustodyLedger creates a new CustodyLedger
func NewCustodyLedger(db *DB) *CustodyLedger {
	return &CustodyLedger{db: db}
}

// HoldDeposit moves funds from the payer's account into the escrow pool and
// returns a journal receipt. Fails if the payer balance cannot cover it.
func (c *CustodyLedger) HoldDeposit(ctx context.Context, payer string, amount int64) (string, error) {
	if amount <= 0 {
		return "", repository.ErrInvalidInput
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := debit(ctx, tx, payer, amount); err != nil {
		return "", err
	}
	if err := credit(ctx, tx, escrowAccount, amount); err != nil {
		return "", err
	}

	receipt := uuid.NewString()
	if err := journal(ctx, tx, receipt, "deposit", payer, amount); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// Disburse moves payout to the recipient and fee to the fee account out of
// the escrow pool in one transaction. Either both payments land or neither
// does.
func (c *CustodyLedger) Disburse(ctx context.Context, recipient string, payout int64, feeAccount string, fee int64) error {
	if payout <= 0 || fee < 0 {
		return repository.ErrInvalidInput
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := debit(ctx, tx, escrowAccount, payout+fee); err != nil {
		return err
	}
	if err := credit(ctx, tx, recipient, payout); err != nil {
		return err
	}
	if err := journal(ctx, tx, uuid.NewString(), "payout", recipient, payout); err != nil {
		return err
	}
	if fee > 0 {
		if err := credit(ctx, tx, feeAccount, fee); err != nil {
			return err
		}
		if err := journal(ctx, tx, uuid.NewString(), "payout", feeAccount, fee); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Refund moves funds from the escrow pool back to the recipient's account
func (c *CustodyLedger) Refund(ctx context.Context, recipient string, amount int64) error {
	return c.release(ctx, "refund", recipient, amount)
}

func (c *CustodyLedger) release(ctx context.Context, kind, recipient string, amount int64) error {
	if amount <= 0 {
		return repository.ErrInvalidInput
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := debit(ctx, tx, escrowAccount, amount); err != nil {
		return err
	}
	if err := credit(ctx, tx, recipient, amount); err != nil {
		return err
	}
	if err := journal(ctx, tx, uuid.NewString(), kind, recipient, amount); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Credit tops up an account balance
func (c *CustodyLedger) Credit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return repository.ErrInvalidInput
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := credit(ctx, tx, account, amount); err != nil {
		return err
	}
	if err := journal(ctx, tx, uuid.NewString(), "credit", account, amount); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Balance returns an account's current balance
func (c *CustodyLedger) Balance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := c.db.QueryRowContext(ctx,
		`SELECT balance FROM custody_accounts WHERE account = ?`, account).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// EscrowBalance returns the total amount currently held in escrow
func (c *CustodyLedger) EscrowBalance(ctx context.Context) (int64, error) {
	return c.Balance(ctx, escrowAccount)
}

func debit(ctx context.Context, tx *sql.Tx, account string, amount int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE custody_accounts SET balance = balance - ? WHERE account = ? AND balance >= ?`,
		amount, account, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrInsufficientFunds
	}

	return nil
}

func credit(ctx context.Context, tx *sql.Tx, account string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO custody_accounts (account, balance) VALUES (?, ?)
		ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance`,
		account, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	return nil
}

func journal(ctx context.Context, tx *sql.Tx, id, kind, account string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO custody_transfers (id, kind, account, amount) VALUES (?, ?, ?, ?)`,
		id, kind, account, amount)
	if err != nil {
		return fmt.Errorf("failed to journal transfer: %w", err)
	}
	return nil
}
