package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
	"bankledger/pkg/validator"
)

// Read-side query functions. All of them materialize a fresh slice; inputs
// are never mutated, so filters compose by sequential application.

func FilterByType(txs []*domain.Transaction, t domain.TransactionType) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == t {
			result = append(result, tx)
		}
	}
	return result
}

// FilterByAmountRange keeps transactions with min <= amount <= max, bounds
// inclusive.
func FilterByAmountRange(txs []*domain.Transaction, min, max decimal.Decimal) ([]*domain.Transaction, error) {
	if err := validator.ValidateAmountRange(min, max); err != nil {
		return nil, err
	}
	result := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Amount.LessThan(min) && !tx.Amount.GreaterThan(max) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// FilterByDateRange keeps transactions with start <= timestamp <= end. One
// convention, inclusive on both ends, applies everywhere; exclusive bounds
// would silently drop boundary transactions.
func FilterByDateRange(txs []*domain.Transaction, start, end time.Time) ([]*domain.Transaction, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: date range start %s is after end %s", repository.ErrValidation, start, end)
	}
	result := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Timestamp.Before(start) && !tx.Timestamp.After(end) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Filter keeps transactions matching an arbitrary predicate.
func Filter(txs []*domain.Transaction, pred func(*domain.Transaction) bool) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if pred(tx) {
			result = append(result, tx)
		}
	}
	return result
}

// SortByAmount returns a sorted copy. The sort is stable, so equal amounts
// keep their input order.
func SortByAmount(txs []*domain.Transaction, ascending bool) []*domain.Transaction {
	result := slices.Clone(txs)
	slices.SortStableFunc(result, func(a, b *domain.Transaction) int {
		c := a.Amount.Cmp(b.Amount)
		if !ascending {
			c = -c
		}
		return c
	})
	return result
}

// SortByDate returns a sorted copy. The sort is stable, so equal timestamps
// keep their input order.
func SortByDate(txs []*domain.Transaction, ascending bool) []*domain.Transaction {
	result := slices.Clone(txs)
	slices.SortStableFunc(result, func(a, b *domain.Transaction) int {
		c := a.Timestamp.Compare(b.Timestamp)
		if !ascending {
			c = -c
		}
		return c
	})
	return result
}

// History returns the account's full transaction history, most recent
// first. The account must exist; its records survive even if it is later
// deleted, at which point they remain reachable through AllTransactions and
// GetTransaction.
func (s *Service) History(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	txs, err := s.txRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(txs)
	return txs, nil
}

// AllTransactions returns the whole log in append order.
func (s *Service) AllTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.txRepo.GetAll(ctx)
}
