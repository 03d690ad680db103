// Package ledger implements the accounting engine: the account registry
// operations, the deposit/withdraw/transfer state transitions, the read-side
// query and aggregation functions, and the suspicious-activity detector.
//
// The engine trusts its callers to have authenticated and authorized the
// acting user; it enforces financial invariants only. Errors are returned,
// never logged or swallowed.
package ledger

import (
	"context"
	"sort"
	"sync"

	"bankledger/internal/repository"
)

// Directory is the external client-directory collaborator. The engine only
// consumes the existence check; directory maintenance lives outside the
// engine.
type Directory interface {
	ClientExists(ctx context.Context, clientID string) (bool, error)
}

// StaticDirectory is a fixed set of known client ids, for wiring and tests.
type StaticDirectory map[string]struct{}

func NewStaticDirectory(clientIDs ...string) StaticDirectory {
	d := make(StaticDirectory, len(clientIDs))
	for _, id := range clientIDs {
		d[id] = struct{}{}
	}
	return d
}

func (d StaticDirectory) ClientExists(ctx context.Context, clientID string) (bool, error) {
	_, ok := d[clientID]
	return ok, nil
}

// AllowAllDirectory accepts every client id. Used when no directory is
// configured.
type AllowAllDirectory struct{}

func (AllowAllDirectory) ClientExists(ctx context.Context, clientID string) (bool, error) {
	return true, nil
}

// Service is the single write path into the registry and the log. Mutating
// operations hold the involved accounts' locks for their whole duration, so
// a balance change and its log entry commit as one step and partial
// transfers are never observable.
type Service struct {
	accountRepo repository.AccountRepository
	txRepo      repository.TransactionRepository
	directory   Directory
	detector    *Detector

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewService(
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	directory Directory,
	detector *Detector,
) *Service {
	if directory == nil {
		directory = AllowAllDirectory{}
	}
	if detector == nil {
		detector = NewDetector(AmountAboveRule(DefaultSuspiciousThreshold))
	}
	return &Service{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		directory:   directory,
		detector:    detector,
		locks:       make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex for one account, creating it on first use.
func (s *Service) accountLock(accountID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	m, ok := s.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[accountID] = m
	}
	return m
}

// lockAccounts acquires the locks for the given accounts in ascending id
// order, so two concurrent transfers over the same pair cannot deadlock.
// The returned func releases them in reverse order.
func (s *Service) lockAccounts(accountIDs ...string) func() {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	locks := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		l := s.accountLock(id)
		l.Lock()
		locks = append(locks, l)
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (s *Service) dropLock(accountID string) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	delete(s.locks, accountID)
}
