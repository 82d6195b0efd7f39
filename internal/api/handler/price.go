package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/btcguesser/internal/api/response"
	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/oracle"
)

// PriceHandler serves the current reference price
type PriceHandler struct {
	oracle   oracle.Oracle
	currency string
	source   string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPriceHandler creates a new price handler.
// currency and source are labels echoed back to clients.
func NewPriceHandler(o oracle.Oracle, currency, source string, timeout time.Duration, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{
		oracle:   o,
		currency: currency,
		source:   source,
		timeout:  timeout,
		logger:   logger,
	}
}

// Get handles GET /api/v1/price
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	price, err := h.oracle.CurrentPrice(ctx)
	if err != nil {
		h.logger.Warn("price lookup failed", slog.String("error", err.Error()))
		WriteError(w, fmt.Errorf("%w: %w", model.ErrPriceUnavailable, err))
		return
	}

	response.JSON(w, http.StatusOK, response.Price{
		Price:    price,
		Currency: h.currency,
		Source:   h.source,
	})
}
