package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/domain"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrBadAuthCode       = errors.New("authorization code does not match account")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// LedgerRepository is the bankd storage layer: an accounts table with
// balances and an append-only transfers table. A transfer is authorization
// check, balance check, debit and credit inside one transaction.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateAccount(ctx context.Context, accountNo, authCode string, openingBalance domain.Money) error {
	query := `
        INSERT INTO accounts (account_no, auth_code, balance, created_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, accountNo, authCode, openingBalance.String(), time.Now())
	return err
}

func (r *LedgerRepository) Balance(ctx context.Context, accountNo string) (domain.Money, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account_no = ?`, accountNo).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Money{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountNo)
		}
		return domain.Money{}, err
	}
	return domain.NewMoney(raw)
}

// Transfer moves amount between accounts. Balances are stored as exact
// decimal strings and re-parsed through Money so no float arithmetic touches
// them.
func (r *LedgerRepository) Transfer(ctx context.Context, fromAccount, authCode, toAccount string, amount domain.Money) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var storedAuth, rawBalance string
	err = tx.QueryRowContext(ctx,
		`SELECT auth_code, balance FROM accounts WHERE account_no = ? FOR UPDATE`,
		fromAccount).Scan(&storedAuth, &rawBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrAccountNotFound, fromAccount)
		}
		return "", err
	}
	if storedAuth != authCode {
		return "", ErrBadAuthCode
	}

	balance, err := domain.NewMoney(rawBalance)
	if err != nil {
		return "", err
	}
	if balance.Cmp(amount) < 0 {
		return "", ErrInsufficientFunds
	}

	var rawToBalance string
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account_no = ? FOR UPDATE`, toAccount).Scan(&rawToBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrAccountNotFound, toAccount)
		}
		return "", err
	}
	toBalance, err := domain.NewMoney(rawToBalance)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE account_no = ?`,
		balance.Sub(amount).String(), fromAccount); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE account_no = ?`,
		toBalance.Add(amount).String(), toAccount); err != nil {
		return "", err
	}

	transferID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO transfers (id, from_account, to_account, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, transferID, fromAccount, toAccount, amount.String(), time.Now()); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return transferID, nil
}

// EnsureSchema creates the ledger tables if they are missing.
func (r *LedgerRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            account_no VARCHAR(64) PRIMARY KEY,
            auth_code  VARCHAR(64) NOT NULL,
            balance    VARCHAR(64) NOT NULL,
            created_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS transfers (
            id           VARCHAR(36) PRIMARY KEY,
            from_account VARCHAR(64) NOT NULL,
            to_account   VARCHAR(64) NOT NULL,
            amount       VARCHAR(64) NOT NULL,
            created_at   DATETIME NOT NULL
        )`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
