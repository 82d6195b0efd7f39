package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	player_id           TEXT PRIMARY KEY,
	score               BIGINT NOT NULL DEFAULT 0,
	guess_initial_price NUMERIC,
	guess_direction     TEXT,
	guess_submitted_at  TIMESTAMPTZ,
	version             BIGINT NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Conditional updates are a single UPDATE guarded by the row version.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and ensures the schema exists
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := NewWithPool(pool)
	if err := s.EnsureSchema(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool creates a storage over an existing pool
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// EnsureSchema creates the players table if it does not exist
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: create schema: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// guessColumns flattens an optional guess into nullable column values
func guessColumns(g *model.ActiveGuess) (price *string, direction *string, submittedAt *time.Time) {
	if g == nil {
		return nil, nil, nil
	}
	p := g.InitialPrice.String()
	d := string(g.Direction)
	t := g.SubmittedAt
	return &p, &d, &t
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	var (
		rec         model.PlayerRecord
		playerID    string
		price       *string
		direction   *string
		submittedAt *time.Time
	)

	err := s.pool.QueryRow(ctx, `
		SELECT player_id, score, guess_initial_price::text, guess_direction, guess_submitted_at, version
		FROM players WHERE player_id = $1`, string(id),
	).Scan(&playerID, &rec.Score, &price, &direction, &submittedAt, &rec.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("postgres: get player %s: %w", id, err)
	}
	rec.PlayerID = model.PlayerID(playerID)

	if price != nil && direction != nil && submittedAt != nil {
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return nil, fmt.Errorf("postgres: parse initial price for %s: %w", id, err)
		}
		rec.ActiveGuess = &model.ActiveGuess{
			InitialPrice: p,
			Direction:    model.Direction(*direction),
			SubmittedAt:  submittedAt.UTC(),
		}
	}

	return &rec, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	price, direction, submittedAt := guessColumns(rec.ActiveGuess)

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO players (player_id, score, guess_initial_price, guess_direction, guess_submitted_at, version)
		VALUES ($1, $2, $3::numeric, $4, $5, 1)
		ON CONFLICT (player_id) DO NOTHING`,
		string(rec.PlayerID), rec.Score, price, direction, submittedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create player %s: %w", rec.PlayerID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlayerExists
	}

	rec.Version = 1
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, expected, next *model.PlayerRecord) error {
	price, direction, submittedAt := guessColumns(next.ActiveGuess)

	tag, err := s.pool.Exec(ctx, `
		UPDATE players
		SET score = $3, guess_initial_price = $4::numeric, guess_direction = $5, guess_submitted_at = $6,
		    version = version + 1, updated_at = now()
		WHERE player_id = $1 AND version = $2`,
		string(expected.PlayerID), expected.Version, next.Score, price, direction, submittedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update player %s: %w", expected.PlayerID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConflict
	}

	next.Version = expected.Version + 1
	return nil
}
