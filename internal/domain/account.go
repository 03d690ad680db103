package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountCurrent     AccountType = "current"
	AccountSavings     AccountType = "savings"
	AccountTermDeposit AccountType = "term_deposit"
)

// Account is a balance-holding record owned by a client. Balance is mutated
// only by the ledger service; Type changes only through an explicit
// administrative operation.
type Account struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewAccount(ownerID string, accountType AccountType, initialBalance decimal.Decimal) *Account {
	return &Account{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Type:      accountType,
		Balance:   initialBalance,
		CreatedAt: time.Now(),
	}
}

func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCurrent, AccountSavings, AccountTermDeposit:
		return true
	}
	return false
}
