package memory

import (
	"bankledger/internal/repository"
)

var (
	_ repository.AccountRepository     = (*AccountRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)
