package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
	"bankledger/pkg/validator"
)

// CreateAccount opens a new account for an existing client. The initial
// balance may be zero but never negative. Ownership checks beyond client
// existence are the authorization collaborator's job and happen before this
// call.
func (s *Service) CreateAccount(ctx context.Context, ownerID string, accountType domain.AccountType, initialBalance decimal.Decimal) (*domain.Account, error) {
	if err := validator.ValidateID("owner id", ownerID); err != nil {
		return nil, err
	}
	if !domain.ValidAccountType(accountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", repository.ErrValidation, accountType)
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance %s is negative", repository.ErrValidation, initialBalance)
	}

	exists, err := s.directory.ClientExists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("directory lookup for client %s: %w", ownerID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: unknown client %s", repository.ErrValidation, ownerID)
	}

	account := domain.NewAccount(ownerID, accountType, initialBalance)
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, accountID)
}

// ListAccountsByOwner returns the owner's accounts in creation order.
func (s *Service) ListAccountsByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	if err := validator.ValidateID("owner id", ownerID); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByOwnerID(ctx, ownerID)
}

// ChangeAccountType updates the account's type in place. No balance side
// effect.
func (s *Service) ChangeAccountType(ctx context.Context, accountID string, newType domain.AccountType) (*domain.Account, error) {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return nil, err
	}
	if !domain.ValidAccountType(newType) {
		return nil, fmt.Errorf("%w: unknown account type %q", repository.ErrValidation, newType)
	}

	unlock := s.lockAccounts(accountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.Type = newType
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account from the registry. It refuses while any
// money remains on the account. Historical transactions stay in the log and
// remain queryable after deletion.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return err
	}

	unlock := s.lockAccounts(accountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s has balance %s, only zero-balance accounts can be deleted",
			repository.ErrState, accountID, account.Balance)
	}

	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.dropLock(accountID)
	return nil
}
