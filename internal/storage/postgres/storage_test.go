package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/btcguesser/internal/model"
)

// These tests need a real database: set BTCGUESS_TEST_DATABASE_URL to run them.
type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupSuite() {
	url := os.Getenv("BTCGUESS_TEST_DATABASE_URL")
	if url == "" {
		s.T().Skip("BTCGUESS_TEST_DATABASE_URL not set")
	}

	s.ctx = context.Background()
	cfg := DefaultConfig()
	cfg.URL = url

	store, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	s.storage = store
}

func (s *StorageSuite) TearDownSuite() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) SetupTest() {
	_, err := s.storage.pool.Exec(s.ctx, `TRUNCATE players`)
	s.Require().NoError(err)
}

func (s *StorageSuite) TestCreateAndGetPlayer() {
	rec := model.NewPlayerRecord("alice")
	rec.ActiveGuess = &model.ActiveGuess{
		InitialPrice: decimal.RequireFromString("67000.12"),
		Direction:    model.DirectionUp,
		SubmittedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.CreatePlayer(s.ctx, rec))
	s.Equal(int64(1), rec.Version)

	stored, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(stored.ActiveGuess)
	s.True(stored.ActiveGuess.InitialPrice.Equal(rec.ActiveGuess.InitialPrice))
	s.Equal(model.DirectionUp, stored.ActiveGuess.Direction)
	s.True(stored.ActiveGuess.SubmittedAt.Equal(rec.ActiveGuess.SubmittedAt))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerTwiceFails() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice")))
	s.ErrorIs(s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice")), model.ErrPlayerExists)
}

func (s *StorageSuite) TestUpdatePlayerVersionGuard() {
	rec := model.NewPlayerRecord("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, rec))
	stale, _ := s.storage.GetPlayer(s.ctx, "alice")

	next := stale.Clone()
	next.Score = 1
	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, stale, next))
	s.Equal(int64(2), next.Version)

	again := stale.Clone()
	again.Score = 2
	s.ErrorIs(s.storage.UpdatePlayer(s.ctx, stale, again), model.ErrConflict)

	stored, _ := s.storage.GetPlayer(s.ctx, "alice")
	s.Equal(1, stored.Score)
	s.Nil(stored.ActiveGuess)
}
