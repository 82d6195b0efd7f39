package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/btcguesser/internal/api/apierr"
	"github.com/mcoot/btcguesser/internal/api/handler"
	apimiddleware "github.com/mcoot/btcguesser/internal/api/middleware"
	"github.com/mcoot/btcguesser/internal/middleware"
	"github.com/mcoot/btcguesser/internal/oracle"
	"github.com/mcoot/btcguesser/internal/services/guess"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	GuessController *guess.Controller
	Oracle          oracle.Oracle

	// Labels reported by the price endpoint
	PriceCurrency string
	PriceSource   string
	PriceTimeout  time.Duration

	// CORSAllowedOrigin defaults to "*"
	CORSAllowedOrigin string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Create handlers
	guessHandler := handler.NewGuessHandler(cfg.GuessController)
	priceHandler := handler.NewPriceHandler(cfg.Oracle, cfg.PriceCurrency, cfg.PriceSource, cfg.PriceTimeout, cfg.Logger)

	// Routes sit on the root router with full paths; a method mismatch inside
	// a mux subrouter is reported as 404 rather than 405.
	r.Use(apimiddleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	const prefix = "/api/v1"
	r.HandleFunc(prefix+"/guess", guessHandler.Submit).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/players/{player_id}/status", guessHandler.Status).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/price", priceHandler.Get).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/health", handler.Health).Methods(http.MethodGet)

	// CORS wraps the whole router so preflight requests never reach route matching
	return middleware.RequestID(middleware.CORS(cfg.CORSAllowedOrigin)(r))
}
