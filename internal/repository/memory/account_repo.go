package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
)

// AccountRepository keeps accounts in memory, indexed by id and by owner.
// The owner index preserves creation order, which is the order GetByOwnerID
// returns. All getters return copies so callers cannot mutate stored state
// behind the repository's back.
type AccountRepository struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	ownerIndex map[string][]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:   make(map[string]*domain.Account),
		ownerIndex: make(map[string][]string),
	}
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("%w: account %s", repository.ErrDuplicate, account.ID)
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	cp := *account
	r.accounts[account.ID] = &cp

	r.ownerIndex[account.OwnerID] = append(r.ownerIndex[account.OwnerID], account.ID)

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	cp := *account
	return &cp, nil
}

func (r *AccountRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Account, 0, len(r.ownerIndex[ownerID]))
	for _, id := range r.ownerIndex[ownerID] {
		if account, exists := r.accounts[id]; exists {
			cp := *account
			result = append(result, &cp)
		}
	}

	return result, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; !exists {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, account.ID)
	}

	cp := *account
	r.accounts[account.ID] = &cp

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}

	delete(r.accounts, id)

	ids := r.ownerIndex[account.OwnerID]
	for i, accountID := range ids {
		if accountID == id {
			r.ownerIndex[account.OwnerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.ownerIndex[account.OwnerID]) == 0 {
		delete(r.ownerIndex, account.OwnerID)
	}

	return nil
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		cp := *account
		result = append(result, &cp)
	}

	return result, nil
}
