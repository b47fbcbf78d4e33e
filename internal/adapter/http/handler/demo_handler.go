package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/middleware"
)

// DemoService seeds random demo activity into a user's ledger.
type DemoService interface {
	SeedTransactions(ctx context.Context, userID int64, maxCount int) int
}

// DemoHandler exposes demo data seeding. It is only mounted when seeding is
// enabled in the configuration.
type DemoHandler struct {
	demoService DemoService
	maxCount    int
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(demoService DemoService, maxCount int) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
		maxCount:    maxCount,
	}
}

// Seed appends up to the configured number of random terminal entries to the
// authenticated user's ledger.
func (h *DemoHandler) Seed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	seeded := h.demoService.SeedTransactions(r.Context(), userID, h.maxCount)

	writeJSON(w, http.StatusCreated, map[string]int{"seeded": seeded})
}
