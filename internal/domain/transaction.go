package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

// Transaction is an immutable record of one money-movement event. A transfer
// is a single record carrying both account ids; the log indexes it under
// both, so either side sees the same logical event.
//
// Seq is assigned by the log at append time and is strictly increasing; it
// is the stable tiebreaker for date sorts.
type Transaction struct {
	ID                   string          `json:"id"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Timestamp            time.Time       `json:"timestamp"`
	Description          string          `json:"description,omitempty"`
	SourceAccountID      string          `json:"source_account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	Seq                  uint64          `json:"-"`
}

func NewTransaction(t TransactionType, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:          uuid.NewString(),
		Type:        t,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now(),
	}
}

func (tx *Transaction) WithAccounts(sourceID, destinationID string) *Transaction {
	tx.SourceAccountID = sourceID
	tx.DestinationAccountID = destinationID
	return tx
}

// Involves reports whether the transaction touches the given account on
// either side.
func (tx *Transaction) Involves(accountID string) bool {
	return tx.SourceAccountID == accountID || tx.DestinationAccountID == accountID
}

func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return true
	}
	return false
}
