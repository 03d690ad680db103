package repository

import (
	"context"
	"errors"
	"time"

	"bankledger/internal/domain"
)

// AccountRepository is the authoritative store of Account records. Only the
// ledger service mutates balances; the repository itself enforces nothing
// beyond key uniqueness.
type AccountRepository interface {
	Save(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*domain.Account, error)
}

// TransactionRepository is the append-only transaction log. There is no
// update or delete: a record, once appended, is permanent. Per-account
// retrieval is in append (chronological) order.
type TransactionRepository interface {
	Append(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.Transaction, error)
	GetAll(ctx context.Context) ([]*domain.Transaction, error)
	GetByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
}

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrState             = errors.New("invalid state")
)
