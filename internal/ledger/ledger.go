package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
	"bankledger/pkg/validator"
)

// Deposit credits the account and appends a deposit record. The balance
// change and the log entry commit under the account's lock as one step.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return nil, err
	}
	if err := validator.ValidateAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.lockAccounts(accountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	oldBalance := account.Balance
	account.Balance = account.Balance.Add(amount)
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(domain.TypeDeposit, amount, description).
		WithAccounts(accountID, "")
	if err := s.txRepo.Append(ctx, tx); err != nil {
		account.Balance = oldBalance
		_ = s.accountRepo.Update(ctx, account)
		return nil, fmt.Errorf("append deposit record: %w", err)
	}

	return tx, nil
}

// Withdraw debits the account by exactly amount and appends a withdrawal
// record. The requested amount must not exceed the current balance.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := validator.ValidateID("account id", accountID); err != nil {
		return nil, err
	}
	if err := validator.ValidateAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.lockAccounts(accountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(account.Balance) {
		return nil, fmt.Errorf("%w: account %s holds %s, cannot withdraw %s",
			repository.ErrInsufficientFunds, accountID, account.Balance, amount)
	}

	oldBalance := account.Balance
	account.Balance = account.Balance.Sub(amount)
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(domain.TypeWithdrawal, amount, description).
		WithAccounts(accountID, "")
	if err := s.txRepo.Append(ctx, tx); err != nil {
		account.Balance = oldBalance
		_ = s.accountRepo.Update(ctx, account)
		return nil, fmt.Errorf("append withdrawal record: %w", err)
	}

	return tx, nil
}

// Transfer atomically moves amount from the source account to the
// destination account and appends one transfer record visible from both.
// Both locks are held for the whole operation, acquired in ascending id
// order; either both balances change and the record exists, or nothing
// happened.
func (s *Service) Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := validator.ValidateID("source account id", sourceID); err != nil {
		return nil, err
	}
	if err := validator.ValidateID("destination account id", destinationID); err != nil {
		return nil, err
	}
	if sourceID == destinationID {
		return nil, fmt.Errorf("%w: cannot transfer from account %s to itself", repository.ErrValidation, sourceID)
	}
	if err := validator.ValidateAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.lockAccounts(sourceID, destinationID)
	defer unlock()

	source, err := s.accountRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	destination, err := s.accountRepo.GetByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(source.Balance) {
		return nil, fmt.Errorf("%w: account %s holds %s, cannot transfer %s",
			repository.ErrInsufficientFunds, sourceID, source.Balance, amount)
	}

	oldSource := source.Balance
	oldDestination := destination.Balance
	source.Balance = source.Balance.Sub(amount)
	destination.Balance = destination.Balance.Add(amount)

	if err := s.accountRepo.Update(ctx, source); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Update(ctx, destination); err != nil {
		source.Balance = oldSource
		_ = s.accountRepo.Update(ctx, source)
		return nil, fmt.Errorf("credit destination account: %w", err)
	}

	tx := domain.NewTransaction(domain.TypeTransfer, amount, description).
		WithAccounts(sourceID, destinationID)
	if err := s.txRepo.Append(ctx, tx); err != nil {
		source.Balance = oldSource
		destination.Balance = oldDestination
		_ = s.accountRepo.Update(ctx, source)
		_ = s.accountRepo.Update(ctx, destination)
		return nil, fmt.Errorf("append transfer record: %w", err)
	}

	return tx, nil
}

// GetTransaction looks up one log record by id.
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if err := validator.ValidateID("transaction id", transactionID); err != nil {
		return nil, err
	}
	return s.txRepo.GetByID(ctx, transactionID)
}
