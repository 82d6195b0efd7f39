package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Conditional updates use WATCH/MULTI so a concurrent writer aborts the transaction.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readPlayer(ctx context.Context, g getter, key string) (*model.PlayerRecord, error) {
	data, err := g.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rec model.PlayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis: decode player at %s: %w", key, err)
	}
	return &rec, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	return readPlayer(ctx, s.client, playerKey(id))
}

func (s *Storage) CreatePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	stored := rec.Clone()
	stored.Version = 1

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, playerKey(rec.PlayerID), data, s.cfg.PlayerTTL).Result()
	if err != nil {
		return fmt.Errorf("redis: create player %s: %w", rec.PlayerID, err)
	}
	if !ok {
		return model.ErrPlayerExists
	}

	rec.Version = stored.Version
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, expected, next *model.PlayerRecord) error {
	key := playerKey(expected.PlayerID)

	stored := next.Clone()
	stored.Version = expected.Version + 1

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readPlayer(ctx, tx, key)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				return model.ErrConflict
			}
			return err
		}
		if cur.Version != expected.Version {
			return model.ErrConflict
		}

		// EXEC fails with TxFailedErr if the key changed after WATCH
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.cfg.PlayerTTL)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		next.Version = stored.Version
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, model.ErrConflict):
		return model.ErrConflict
	default:
		return fmt.Errorf("redis: update player %s: %w", expected.PlayerID, err)
	}
}
