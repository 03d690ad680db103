package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
)

func TestAccountRepository_SaveAndGetByID(t *testing.T) {
	repo := NewAccountRepository()
	account := &domain.Account{
		ID:      "acc1",
		OwnerID: "client1",
		Type:    domain.AccountCurrent,
		Balance: decimal.NewFromInt(100),
	}

	err := repo.Save(context.Background(), account)
	if err != nil {
		t.Fatalf("unexpected error on Save: %v", err)
	}
	got, err := repo.GetByID(context.Background(), "acc1")

	if err != nil {
		t.Fatalf("unexpected error on GetByID: %v", err)
	}
	if got.ID != account.ID || got.OwnerID != account.OwnerID || !got.Balance.Equal(account.Balance) {
		t.Errorf("expected account %+v, got %+v", account, got)
	}
}

func TestAccountRepository_Save_Duplicate(t *testing.T) {
	repo := NewAccountRepository()
	account := &domain.Account{ID: "acc1", OwnerID: "client1"}
	_ = repo.Save(context.Background(), account)

	err := repo.Save(context.Background(), &domain.Account{ID: "acc1", OwnerID: "client2"})

	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountRepository_GetReturnsCopy(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{ID: "acc1", OwnerID: "client1", Balance: decimal.NewFromInt(10)})

	got, _ := repo.GetByID(context.Background(), "acc1")
	got.Balance = decimal.NewFromInt(9999)

	stored, _ := repo.GetByID(context.Background(), "acc1")
	if !stored.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("mutating a returned account must not change the store, got %s", stored.Balance)
	}
}

func TestAccountRepository_GetByOwnerID_CreationOrder(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{ID: "a1", OwnerID: "client1"})
	_ = repo.Save(context.Background(), &domain.Account{ID: "a2", OwnerID: "client2"})
	_ = repo.Save(context.Background(), &domain.Account{ID: "a3", OwnerID: "client1"})

	accounts, err := repo.GetByOwnerID(context.Background(), "client1")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID != "a1" || accounts[1].ID != "a3" {
		t.Errorf("expected [a1 a3], got %+v", accounts)
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{ID: "a1", OwnerID: "client1"})
	_ = repo.Save(context.Background(), &domain.Account{ID: "a2", OwnerID: "client1"})

	if err := repo.Delete(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error on Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "a1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	accounts, _ := repo.GetByOwnerID(context.Background(), "client1")
	if len(accounts) != 1 || accounts[0].ID != "a2" {
		t.Errorf("owner index not updated after delete: %+v", accounts)
	}

	if err := repo.Delete(context.Background(), "a1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestTransactionRepository_AppendAndGetByID(t *testing.T) {
	repo := NewTransactionRepository()
	record := domain.NewTransaction(domain.TypeDeposit, decimal.NewFromInt(100), "").
		WithAccounts("acc1", "")

	if err := repo.Append(context.Background(), record); err != nil {
		t.Fatalf("unexpected error on Append: %v", err)
	}
	got, err := repo.GetByID(context.Background(), record.ID)

	if err != nil {
		t.Fatalf("unexpected error on GetByID: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(100)) || got.Seq == 0 {
		t.Errorf("expected amount 100 with assigned seq, got %+v", got)
	}
}

func TestTransactionRepository_Append_Duplicate(t *testing.T) {
	repo := NewTransactionRepository()
	record := domain.NewTransaction(domain.TypeDeposit, decimal.NewFromInt(1), "").WithAccounts("acc1", "")
	_ = repo.Append(context.Background(), record)

	err := repo.Append(context.Background(), record)

	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestTransactionRepository_IndexesBothSidesOfTransfer(t *testing.T) {
	repo := NewTransactionRepository()
	record := domain.NewTransaction(domain.TypeTransfer, decimal.NewFromInt(50), "").
		WithAccounts("acc1", "acc2")
	_ = repo.Append(context.Background(), record)

	for _, accountID := range []string{"acc1", "acc2"} {
		txs, err := repo.GetByAccountID(context.Background(), accountID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != record.ID {
			t.Errorf("account %s should see the transfer, got %+v", accountID, txs)
		}
	}
}

func TestTransactionRepository_GetByAccountID_AppendOrder(t *testing.T) {
	repo := NewTransactionRepository()
	var ids []string
	for i := 0; i < 3; i++ {
		record := domain.NewTransaction(domain.TypeDeposit, decimal.NewFromInt(int64(i+1)), "").
			WithAccounts("acc1", "")
		_ = repo.Append(context.Background(), record)
		ids = append(ids, record.ID)
	}

	txs, err := repo.GetByAccountID(context.Background(), "acc1")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	for i, tx := range txs {
		if tx.ID != ids[i] {
			t.Errorf("expected append order, got %+v", txs)
		}
		if i > 0 && txs[i].Seq <= txs[i-1].Seq {
			t.Errorf("sequence numbers must increase: %d then %d", txs[i-1].Seq, txs[i].Seq)
		}
		if i > 0 && txs[i].Timestamp.Before(txs[i-1].Timestamp) {
			t.Errorf("timestamps must be non-decreasing in append order")
		}
	}
}

func TestTransactionRepository_GetByPeriod_InclusiveBounds(t *testing.T) {
	repo := NewTransactionRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var appended []*domain.Transaction
	for i := 0; i < 3; i++ {
		record := domain.NewTransaction(domain.TypeDeposit, decimal.NewFromInt(1), "").WithAccounts("acc1", "")
		record.Timestamp = base.Add(time.Duration(i) * time.Hour)
		_ = repo.Append(context.Background(), record)
		appended = append(appended, record)
	}

	got, err := repo.GetByPeriod(context.Background(), appended[0].Timestamp, appended[1].Timestamp)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected both boundary records, got %d", len(got))
	}
}
