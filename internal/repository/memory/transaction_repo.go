package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
)

// TransactionRepository is the in-memory append-only log. Every record is
// indexed under its source account and, for transfers, its destination
// account as well, so both sides of a transfer see the same entry. Records
// are never updated or removed; deleting an account leaves its history
// intact and queryable by id.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	order        []string
	index        map[string][]string
	nextSeq      uint64
	lastAppend   time.Time
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		index:        make(map[string][]string),
	}
}

// Append stores the record and assigns its log sequence. Timestamps are
// clamped to be non-decreasing in append order, so chronological order and
// sequence order never disagree.
func (r *TransactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}

	r.nextSeq++
	tx.Seq = r.nextSeq
	if tx.Timestamp.Before(r.lastAppend) {
		tx.Timestamp = r.lastAppend
	}
	r.lastAppend = tx.Timestamp

	r.transactions[tx.ID] = tx
	r.order = append(r.order, tx.ID)

	if tx.SourceAccountID != "" {
		r.index[tx.SourceAccountID] = append(r.index[tx.SourceAccountID], tx.ID)
	}
	if tx.DestinationAccountID != "" && tx.DestinationAccountID != tx.SourceAccountID {
		r.index[tx.DestinationAccountID] = append(r.index[tx.DestinationAccountID], tx.ID)
	}

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return tx, nil
}

// GetByAccountID returns the account's history in append order.
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.index[accountID]
	result := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.transactions[id])
	}

	return result, nil
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.transactions[id])
	}

	return result, nil
}

// GetByPeriod returns records with from <= timestamp <= to, in append order.
// Bounds are inclusive on both ends.
func (r *TransactionRepository) GetByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Transaction
	for _, id := range r.order {
		tx := r.transactions[id]
		if !tx.Timestamp.Before(from) && !tx.Timestamp.After(to) {
			result = append(result, tx)
		}
	}

	return result, nil
}
