package guess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/btcguesser/internal/dependencies/clock"
	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/oracle"
	"github.com/mcoot/btcguesser/internal/services/scoring"
	"github.com/mcoot/btcguesser/internal/storage"
)

// NotFoundMessage is reported for players that have never guessed
const NotFoundMessage = "Player not found, starting with score 0."

// maxCommitAttempts bounds re-reads after losing a conditional write
const maxCommitAttempts = 3

// Config holds tunables for the guess lifecycle
type Config struct {
	// ResolutionWindow is how long a guess must age before it can be scored
	ResolutionWindow time.Duration
	// OracleTimeout bounds each price fetch
	OracleTimeout time.Duration
}

// DefaultConfig returns a one minute window and a five second oracle timeout
func DefaultConfig() Config {
	return Config{
		ResolutionWindow: 60 * time.Second,
		OracleTimeout:    5 * time.Second,
	}
}

// Controller manages the guess state machine for each player.
// All record mutations are conditional writes against the store; the oracle
// is always consulted outside of them.
type Controller struct {
	storage storage.Storage
	oracle  oracle.Oracle
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// NewController creates a new guess Controller
func NewController(
	storage storage.Storage,
	oracle oracle.Oracle,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	defaults := DefaultConfig()
	if cfg.ResolutionWindow <= 0 {
		cfg.ResolutionWindow = defaults.ResolutionWindow
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = defaults.OracleTimeout
	}
	return &Controller{
		storage: storage,
		oracle:  oracle,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// ResolutionWindow returns the configured window
func (c *Controller) ResolutionWindow() time.Duration {
	return c.cfg.ResolutionWindow
}

// SubmitGuess opens a new guess for the player at the current price.
// It fails with ErrGuessAlreadyActive rather than replacing an unresolved guess.
func (c *Controller) SubmitGuess(ctx context.Context, playerID model.PlayerID, direction model.Direction) (*model.ActiveGuess, error) {
	id, err := normalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}
	if !direction.Valid() {
		return nil, model.ErrInvalidDirection
	}

	rec, found, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if found && rec.HasActiveGuess() {
		return nil, model.ErrGuessAlreadyActive
	}

	price, err := c.fetchPrice(ctx)
	if err != nil {
		c.logger.Warn("price unavailable for guess submission",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	guess := &model.ActiveGuess{
		InitialPrice: price,
		Direction:    direction,
		SubmittedAt:  c.clock.Now(),
	}

	for attempt := 1; ; attempt++ {
		err = c.attachGuess(ctx, id, rec, found, guess)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrPlayerExists) && !errors.Is(err, model.ErrConflict) {
			c.logger.Error("failed to save guess",
				slog.String("player_id", string(id)),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
		}
		if attempt == maxCommitAttempts {
			return nil, fmt.Errorf("%w: gave up after %d attempts: %w", model.ErrStorage, attempt, err)
		}

		// Someone else wrote first; re-check the precondition against what they wrote
		rec, found, err = c.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if found && rec.HasActiveGuess() {
			return nil, model.ErrGuessAlreadyActive
		}
	}

	c.logger.Info("guess submitted",
		slog.String("player_id", string(id)),
		slog.String("direction", string(direction)),
		slog.String("initial_price", price.String()),
	)

	result := *guess
	return &result, nil
}

// attachGuess writes the guess onto the record, creating the record for new players
func (c *Controller) attachGuess(ctx context.Context, id model.PlayerID, rec *model.PlayerRecord, found bool, guess *model.ActiveGuess) error {
	if !found {
		fresh := model.NewPlayerRecord(id)
		fresh.ActiveGuess = guess
		return c.storage.CreatePlayer(ctx, fresh)
	}
	next := rec.Clone()
	next.ActiveGuess = guess
	return c.storage.UpdatePlayer(ctx, rec, next)
}

// GetStatus reports the player's score and guess, resolving the guess first
// when it has aged past the resolution window and the price has moved.
// Repeated or concurrent calls score a guess at most once.
func (c *Controller) GetStatus(ctx context.Context, playerID model.PlayerID) (*model.Status, error) {
	id, err := normalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}

	rec, found, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		msg := NotFoundMessage
		return &model.Status{PlayerID: id, ResolutionMessage: &msg}, nil
	}
	if !rec.HasActiveGuess() {
		return c.report(rec), nil
	}

	guess := rec.ActiveGuess
	age := guess.Age(c.clock.Now())
	if age < c.cfg.ResolutionWindow {
		c.logger.Debug("guess too recent to resolve",
			slog.String("player_id", string(id)),
			slog.Duration("age", age),
		)
		return c.report(rec), nil
	}

	price, err := c.fetchPrice(ctx)
	if err != nil {
		c.logger.Warn("could not fetch price to resolve guess, guess remains active",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return c.report(rec), nil
	}
	if price.Equal(guess.InitialPrice) {
		c.logger.Debug("price unchanged, guess remains active",
			slog.String("player_id", string(id)),
			slog.String("price", price.String()),
		)
		return c.report(rec), nil
	}

	delta := scoring.Score(guess.Direction, guess.InitialPrice, price)
	next := rec.Clone()
	next.Score += delta
	next.ActiveGuess = nil

	if err := c.storage.UpdatePlayer(ctx, rec, next); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return c.reportLatest(ctx, id)
		}
		c.logger.Error("failed to save resolved guess",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	c.logger.Info("guess resolved",
		slog.String("player_id", string(id)),
		slog.String("direction", string(guess.Direction)),
		slog.String("initial_price", guess.InitialPrice.String()),
		slog.String("resolved_price", price.String()),
		slog.Int("score_delta", delta),
		slog.Int("score", next.Score),
		slog.Duration("age", age),
	)

	msg := scoring.Message(delta, guess.InitialPrice, price)
	status := c.report(next)
	status.ResolutionMessage = &msg
	status.ScoreDelta = delta
	return status, nil
}

// reportLatest re-reads a record after losing a resolution race. The winner
// already applied the score, so this poll reports the result without a delta.
func (c *Controller) reportLatest(ctx context.Context, id model.PlayerID) (*model.Status, error) {
	c.logger.Info("guess resolved by a concurrent request",
		slog.String("player_id", string(id)),
	)

	latest, found, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return &model.Status{PlayerID: id}, nil
	}
	return c.report(latest), nil
}

// report builds a status without any resolution outcome
func (c *Controller) report(rec *model.PlayerRecord) *model.Status {
	status := &model.Status{
		PlayerID: rec.PlayerID,
		Score:    rec.Score,
	}
	if rec.ActiveGuess != nil {
		g := *rec.ActiveGuess
		resolvesAt := g.ResolvesAt(c.cfg.ResolutionWindow)
		status.ActiveGuess = &g
		status.ResolvesAt = &resolvesAt
	}
	return status
}

// load reads a player record, mapping store failures to ErrStorage
func (c *Controller) load(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, bool, error) {
	rec, err := c.storage.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, false, nil
		}
		c.logger.Error("failed to load player",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	return rec, true, nil
}

// fetchPrice asks the oracle for the current price within the configured timeout
func (c *Controller) fetchPrice(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OracleTimeout)
	defer cancel()

	price, err := c.oracle.CurrentPrice(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", model.ErrPriceUnavailable, err)
	}
	return price, nil
}

func normalizePlayerID(id model.PlayerID) (model.PlayerID, error) {
	trimmed := model.PlayerID(strings.TrimSpace(string(id)))
	if trimmed == "" {
		return "", fmt.Errorf("%w: player id is required", model.ErrInvalidInput)
	}
	return trimmed, nil
}
