package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// BankingService is the slice of the banking use case the handler needs.
type BankingService interface {
	Deposit(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error)
	Withdraw(ctx context.Context, userID, amountCents int64) (*usecase.WithdrawResult, error)
	Transfer(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error)
}

// BalanceService serves derived balance reads.
type BalanceService interface {
	CurrentBalance(ctx context.Context, userID int64) (int64, error)
}

// UserResolver resolves a user id or username to a user.
type UserResolver interface {
	ResolveUser(ctx context.Context, identifier string) (*domain.User, error)
}

// BankingHandler handles deposit, withdrawal, transfer and balance requests
// for the authenticated user.
type BankingHandler struct {
	bankingService BankingService
	balanceService BalanceService
	userResolver   UserResolver
}

// NewBankingHandler creates a new BankingHandler.
func NewBankingHandler(bankingService BankingService, balanceService BalanceService, userResolver UserResolver) *BankingHandler {
	return &BankingHandler{
		bankingService: bankingService,
		balanceService: balanceService,
		userResolver:   userResolver,
	}
}

// Deposit credits the authenticated user's account.
func (h *BankingHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.bankingService.Deposit(r.Context(), userID, req.AmountCents())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromResult(result))
}

// Withdraw debits the authenticated user's account. A withdrawal the balance
// cannot cover returns 201 with completed=false; the failed attempt is part
// of the ledger.
func (h *BankingHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.bankingService.Withdraw(r.Context(), userID, req.AmountCents())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawFromResult(result))
}

// Transfer moves money from the authenticated user to another user.
func (h *BankingHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Recipient == "" {
		writeError(w, http.StatusBadRequest, "missing recipient", "")
		return
	}

	recipient, err := h.userResolver.ResolveUser(r.Context(), req.Recipient)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve recipient", err.Error())
		return
	}

	result, err := h.bankingService.Transfer(r.Context(), userID, recipient.ID, req.AmountCents())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}

// Balance returns the authenticated user's current balance.
func (h *BankingHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	balance, err := h.balanceService.CurrentBalance(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: domain.CentsToDecimal(balance),
	})
}
