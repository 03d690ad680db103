package ledger

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

// DefaultSuspiciousThreshold is the amount above which a transaction is
// flagged when no threshold is configured.
var DefaultSuspiciousThreshold = decimal.NewFromInt(10000)

// Rule is one suspicious-activity check over a single transaction. New
// rules (velocity, round-number, new-payee) plug in without changing
// callers.
type Rule struct {
	Name        string
	Description string
	Match       func(*domain.Transaction) bool
}

// AmountAboveRule flags transactions whose amount strictly exceeds the
// threshold.
func AmountAboveRule(threshold decimal.Decimal) Rule {
	return Rule{
		Name:        "amount_above_threshold",
		Description: "transaction amount exceeds the configured threshold",
		Match: func(tx *domain.Transaction) bool {
			return tx.Amount.GreaterThan(threshold)
		},
	}
}

// Detector runs a set of rules over transaction sets on demand.
type Detector struct {
	rules []Rule
}

func NewDetector(rules ...Rule) *Detector {
	return &Detector{rules: rules}
}

func (d *Detector) AddRule(rule Rule) {
	d.rules = append(d.rules, rule)
}

// Detect returns the transactions matched by at least one rule,
// deduplicated by id and sorted most recent first.
func (d *Detector) Detect(txs []*domain.Transaction) []*domain.Transaction {
	seen := make(map[string]struct{})
	var flagged []*domain.Transaction

	for _, tx := range txs {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		for _, rule := range d.rules {
			if rule.Match(tx) {
				seen[tx.ID] = struct{}{}
				flagged = append(flagged, tx)
				break
			}
		}
	}

	slices.SortStableFunc(flagged, func(a, b *domain.Transaction) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		if a.Seq == b.Seq {
			return 0
		}
		if b.Seq > a.Seq {
			return 1
		}
		return -1
	})
	return flagged
}

// Flags returns the names of the rules the transaction trips.
func (d *Detector) Flags(tx *domain.Transaction) []string {
	var flags []string
	for _, rule := range d.rules {
		if rule.Match(tx) {
			flags = append(flags, rule.Name)
		}
	}
	return flags
}

// SuspiciousTransactions runs the detector over the whole log.
func (s *Service) SuspiciousTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	txs, err := s.txRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(txs), nil
}
