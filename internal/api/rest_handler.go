package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/ledger"
	"bankledger/internal/repository"
	"bankledger/pkg/metrics"
)

// APIHandler exposes the ledger engine over HTTP. Authentication and
// ownership checks happen upstream; this layer translates requests, maps
// the engine's error kinds to status codes and records metrics.
type APIHandler struct {
	service        *ledger.Service
	metrics        *metrics.Collector
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(service *ledger.Service, collector *metrics.Collector, logger *slog.Logger, requestTimeout time.Duration) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return &APIHandler{
		service:        service,
		metrics:        collector,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

type CreateAccountRequest struct {
	OwnerID        string             `json:"owner_id"`
	Type           domain.AccountType `json:"type"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
}

type ChangeAccountTypeRequest struct {
	AccountID string             `json:"account_id"`
	Type      domain.AccountType `json:"type"`
}

type CreateTransactionRequest struct {
	Type                 domain.TransactionType `json:"type"`
	Amount               decimal.Decimal        `json:"amount"`
	SourceAccountID      string                 `json:"source_account_id"`
	DestinationAccountID string                 `json:"destination_account_id,omitempty"`
	Description          string                 `json:"description,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	account, err := h.service.CreateAccount(ctx, req.OwnerID, req.Type, req.InitialBalance)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}

	h.metrics.UpdateAccountBalance(account.ID, account.Balance)
	h.sendJSON(w, account, http.StatusCreated)
}

func (h *APIHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		accounts, err := h.service.ListAccountsByOwner(ctx, ownerID)
		if err != nil {
			h.sendEngineError(w, err)
			return
		}
		h.sendJSON(w, accounts, http.StatusOK)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		h.sendError(w, "Account id or owner_id is required", http.StatusBadRequest, "MISSING_ID")
		return
	}

	account, err := h.service.FindAccountByID(ctx, id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendJSON(w, account, http.StatusOK)
}

func (h *APIHandler) ChangeAccountTypeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req ChangeAccountTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	account, err := h.service.ChangeAccountType(ctx, req.AccountID, req.Type)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendJSON(w, account, http.StatusOK)
}

func (h *APIHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	id := r.URL.Query().Get("id")
	if id == "" {
		h.sendError(w, "Account id is required", http.StatusBadRequest, "MISSING_ID")
		return
	}

	if err := h.service.DeleteAccount(ctx, id); err != nil {
		h.sendEngineError(w, err)
		return
	}

	h.metrics.RemoveAccountBalance(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	var (
		tx  *domain.Transaction
		err error
	)
	switch req.Type {
	case domain.TypeDeposit:
		tx, err = h.service.Deposit(ctx, req.SourceAccountID, req.Amount, req.Description)
	case domain.TypeWithdrawal:
		tx, err = h.service.Withdraw(ctx, req.SourceAccountID, req.Amount, req.Description)
	case domain.TypeTransfer:
		tx, err = h.service.Transfer(ctx, req.SourceAccountID, req.DestinationAccountID, req.Amount, req.Description)
	default:
		h.sendError(w, "Unknown transaction type", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	h.metrics.RecordOperation(string(req.Type), time.Since(startTime), err == nil)

	if err != nil {
		h.logger.Warn("Ledger operation rejected",
			slog.String("type", string(req.Type)),
			slog.String("error", err.Error()))
		h.sendEngineError(w, err)
		return
	}

	h.refreshBalanceGauges(ctx, tx)
	h.logger.Info("Ledger operation completed",
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
		slog.String("amount", tx.Amount.String()))
	h.sendJSON(w, tx, http.StatusCreated)
}

func (h *APIHandler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		txs, err := h.service.History(ctx, accountID)
		if err != nil {
			h.sendEngineError(w, err)
			return
		}
		h.sendJSON(w, txs, http.StatusOK)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		h.sendError(w, "Transaction id or account_id is required", http.StatusBadRequest, "MISSING_ID")
		return
	}

	tx, err := h.service.GetTransaction(ctx, id)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendJSON(w, tx, http.StatusOK)
}

func (h *APIHandler) ClientSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	ownerID := r.URL.Query().Get("owner_id")
	summary, err := h.service.ClientSummary(ctx, ownerID)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendJSON(w, summary, http.StatusOK)
}

func (h *APIHandler) TopClientsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			h.sendError(w, "Invalid limit", http.StatusBadRequest, "VALIDATION_ERROR")
			return
		}
		limit = parsed
	}

	ranking, err := h.service.TopClientsByBalance(ctx, limit)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}
	h.sendJSON(w, ranking, http.StatusOK)
}

func (h *APIHandler) SuspiciousHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	txs, err := h.service.SuspiciousTransactions(ctx)
	if err != nil {
		h.sendEngineError(w, err)
		return
	}

	h.metrics.RecordSuspicious(len(txs))
	h.sendJSON(w, txs, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	h.sendJSON(w, response, http.StatusOK)
}

// refreshBalanceGauges re-reads the accounts a transaction touched and
// pushes their balances to the gauge.
func (h *APIHandler) refreshBalanceGauges(ctx context.Context, tx *domain.Transaction) {
	for _, id := range []string{tx.SourceAccountID, tx.DestinationAccountID} {
		if id == "" {
			continue
		}
		if account, err := h.service.FindAccountByID(ctx, id); err == nil {
			h.metrics.UpdateAccountBalance(account.ID, account.Balance)
		}
	}
}

func (h *APIHandler) sendEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
	case errors.Is(err, repository.ErrNotFound):
		h.sendError(w, err.Error(), http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, repository.ErrInsufficientFunds):
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS")
	case errors.Is(err, repository.ErrState):
		h.sendError(w, err.Error(), http.StatusConflict, "STATE_ERROR")
	case errors.Is(err, repository.ErrDuplicate):
		h.sendError(w, err.Error(), http.StatusConflict, "DUPLICATE")
	default:
		h.sendError(w, "Internal error", http.StatusInternalServerError, "SERVER_ERROR")
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccountHandler)
	mux.HandleFunc("GET /api/v1/accounts", h.GetAccountHandler)
	mux.HandleFunc("PATCH /api/v1/accounts/type", h.ChangeAccountTypeHandler)
	mux.HandleFunc("DELETE /api/v1/accounts", h.DeleteAccountHandler)
	mux.HandleFunc("POST /api/v1/transactions", h.CreateTransactionHandler)
	mux.HandleFunc("GET /api/v1/transactions", h.GetTransactionHandler)
	mux.HandleFunc("GET /api/v1/reports/summary", h.ClientSummaryHandler)
	mux.HandleFunc("GET /api/v1/reports/top-clients", h.TopClientsHandler)
	mux.HandleFunc("GET /api/v1/reports/suspicious", h.SuspiciousHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
