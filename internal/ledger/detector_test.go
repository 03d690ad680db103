package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

func TestDetector_AmountAboveThreshold(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	small := tx(t, domain.TypeDeposit, "50", base)
	big := tx(t, domain.TypeDeposit, "15000", base.Add(time.Hour))
	medium := tx(t, domain.TypeWithdrawal, "200", base.Add(2*time.Hour))
	biggest := tx(t, domain.TypeTransfer, "20000", base.Add(3*time.Hour))

	detector := NewDetector(AmountAboveRule(decimal.NewFromInt(10000)))
	flagged := detector.Detect([]*domain.Transaction{small, big, medium, biggest})

	if len(flagged) != 2 {
		t.Fatalf("expected 2 flagged transactions, got %d", len(flagged))
	}
	// Most recent first.
	if flagged[0].ID != biggest.ID || flagged[1].ID != big.ID {
		t.Errorf("expected [20000, 15000] by date descending, got [%s, %s]", flagged[0].Amount, flagged[1].Amount)
	}
}

func TestDetector_ThresholdIsExclusive(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	atThreshold := tx(t, domain.TypeDeposit, "10000", base)

	detector := NewDetector(AmountAboveRule(decimal.NewFromInt(10000)))

	if flagged := detector.Detect([]*domain.Transaction{atThreshold}); len(flagged) != 0 {
		t.Errorf("amount equal to threshold must not be flagged, got %d", len(flagged))
	}
}

func TestDetector_DeduplicatesAndSupportsExtraRules(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := tx(t, domain.TypeDeposit, "15000", base)

	detector := NewDetector(
		AmountAboveRule(decimal.NewFromInt(10000)),
		Rule{
			Name:  "round_number",
			Match: func(tx *domain.Transaction) bool { return tx.Amount.Mod(decimal.NewFromInt(1000)).IsZero() },
		},
	)

	// Matches both rules and appears twice in the input; must come out once.
	flagged := detector.Detect([]*domain.Transaction{record, record})
	if len(flagged) != 1 {
		t.Fatalf("expected 1 deduplicated transaction, got %d", len(flagged))
	}

	flags := detector.Flags(record)
	if len(flags) != 2 {
		t.Errorf("expected both rule names, got %v", flags)
	}
}

func TestService_SuspiciousTransactions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	account := mustAccount(t, svc, "client-1", 100000)

	for _, amount := range []int64{50, 15000, 200, 20000} {
		if _, err := svc.Withdraw(ctx, account.ID, decimal.NewFromInt(amount), ""); err != nil {
			t.Fatalf("withdraw %d failed: %v", amount, err)
		}
	}

	flagged, err := svc.SuspiciousTransactions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flagged) != 2 {
		t.Fatalf("expected 2 suspicious transactions, got %d", len(flagged))
	}
	if !flagged[0].Amount.Equal(decimal.NewFromInt(20000)) || !flagged[1].Amount.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("expected [20000, 15000] most recent first, got [%s, %s]", flagged[0].Amount, flagged[1].Amount)
	}
}
