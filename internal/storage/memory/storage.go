package memory

import (
	"context"
	"sync"

	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	players map[model.PlayerID]*model.PlayerRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rec.Clone(), nil
}

func (s *Storage) CreatePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[rec.PlayerID]; ok {
		return model.ErrPlayerExists
	}
	rec.Version = 1
	s.players[rec.PlayerID] = rec.Clone()
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, expected, next *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.players[expected.PlayerID]
	if !ok || cur.Version != expected.Version {
		return model.ErrConflict
	}
	next.Version = expected.Version + 1
	s.players[expected.PlayerID] = next.Clone()
	return nil
}

// Len returns the number of stored players
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
