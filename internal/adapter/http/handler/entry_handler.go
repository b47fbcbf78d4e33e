package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryService serves ledger history reads for the entry handler.
type EntryService interface {
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) (*usecase.EntryPage, error)
	GetEntry(ctx context.Context, userID, entryID int64) (*domain.Entry, error)
}

// HistoricalBalanceService reconstructs the balance as of one entry.
type HistoricalBalanceService interface {
	BalanceAtEntry(ctx context.Context, userID, entryID int64) (int64, error)
}

// EntryHandler handles ledger history requests for the authenticated user.
type EntryHandler struct {
	entryService   EntryService
	balanceService HistoricalBalanceService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService EntryService, balanceService HistoricalBalanceService) *EntryHandler {
	return &EntryHandler{
		entryService:   entryService,
		balanceService: balanceService,
	}
}

// List returns one page of the authenticated user's ledger history, newest
// first, each entry annotated with its running balance.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	page, err := h.entryService.ListEntries(r.Context(), usecase.ListEntriesInput{
		UserID: userID,
		Page:   parseIntQuery(r, "page", 0),
		Size:   parseIntQuery(r, "size", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryPageFromUseCase(page))
}

// BalanceAt returns the authenticated user's balance as it was immediately
// after the given entry.
func (h *EntryHandler) BalanceAt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entryID, err := parseEntryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction ID", err.Error())
		return
	}

	// Ownership check first so foreign entry ids read as not found.
	if _, err := h.entryService.GetEntry(r.Context(), userID, entryID); err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	balance, err := h.balanceService.BalanceAtEntry(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryBalanceResponse{
		EntryID: entryID,
		Balance: domain.CentsToDecimal(balance),
	})
}

func parseEntryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
