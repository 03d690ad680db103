package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/pkg/validator"
)

// ClientBalance is one row of the top-clients ranking.
type ClientBalance struct {
	OwnerID      string          `json:"owner_id"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	AccountCount int             `json:"account_count"`
}

// ClientSummary aggregates one client's position across all their accounts.
type ClientSummary struct {
	OwnerID          string          `json:"owner_id"`
	AccountCount     int             `json:"account_count"`
	TransactionCount int             `json:"transaction_count"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	TotalTransfers   decimal.Decimal `json:"total_transfers"`
}

// TotalBalance sums the current balances of the given accounts. Each
// account is read atomically; the sum across accounts is not a single
// global snapshot.
func (s *Service) TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range accountIDs {
		account, err := s.accountRepo.GetByID(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(account.Balance)
	}
	return total, nil
}

// TotalByType sums the amounts of all transactions of the given type.
func TotalByType(txs []*domain.Transaction, t domain.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TransactionCountsByType counts log records per transaction type. Types
// with no records are omitted.
func (s *Service) TransactionCountsByType(ctx context.Context) (map[domain.TransactionType]int, error) {
	txs, err := s.txRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.TransactionType]int)
	for _, tx := range txs {
		counts[tx.Type]++
	}
	return counts, nil
}

// AccountCountsByType counts registered accounts per account type.
func (s *Service) AccountCountsByType(ctx context.Context) (map[domain.AccountType]int, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.AccountType]int)
	for _, account := range accounts {
		counts[account.Type]++
	}
	return counts, nil
}

// TopClientsByBalance ranks clients by total balance across their accounts,
// highest first, ties broken by owner id so the order is stable. A limit of
// zero or less yields no rows; a limit beyond the population returns
// everyone.
func (s *Service) TopClientsByBalance(ctx context.Context, limit int) ([]ClientBalance, error) {
	if limit <= 0 {
		return []ClientBalance{}, nil
	}

	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string]*ClientBalance)
	for _, account := range accounts {
		row, ok := byOwner[account.OwnerID]
		if !ok {
			row = &ClientBalance{OwnerID: account.OwnerID, TotalBalance: decimal.Zero}
			byOwner[account.OwnerID] = row
		}
		row.TotalBalance = row.TotalBalance.Add(account.Balance)
		row.AccountCount++
	}

	ranking := make([]ClientBalance, 0, len(byOwner))
	for _, row := range byOwner {
		ranking = append(ranking, *row)
	}
	slices.SortFunc(ranking, func(a, b ClientBalance) int {
		if c := b.TotalBalance.Cmp(a.TotalBalance); c != 0 {
			return c
		}
		return strings.Compare(a.OwnerID, b.OwnerID)
	})

	if limit < len(ranking) {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// ClientSummary aggregates the client's accounts and combined history. A
// transfer between two accounts of the same client is counted once.
func (s *Service) ClientSummary(ctx context.Context, ownerID string) (*ClientSummary, error) {
	if err := validator.ValidateID("owner id", ownerID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &ClientSummary{
		OwnerID:          ownerID,
		AccountCount:     len(accounts),
		TotalBalance:     decimal.Zero,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TotalTransfers:   decimal.Zero,
	}

	seen := make(map[string]struct{})
	for _, account := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(account.Balance)

		txs, err := s.txRepo.GetByAccountID(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			if _, ok := seen[tx.ID]; ok {
				continue
			}
			seen[tx.ID] = struct{}{}
			summary.TransactionCount++

			switch tx.Type {
			case domain.TypeDeposit:
				summary.TotalDeposits = summary.TotalDeposits.Add(tx.Amount)
			case domain.TypeWithdrawal:
				summary.TotalWithdrawals = summary.TotalWithdrawals.Add(tx.Amount)
			case domain.TypeTransfer:
				summary.TotalTransfers = summary.TotalTransfers.Add(tx.Amount)
			}
		}
	}

	return summary, nil
}
