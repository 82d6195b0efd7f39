package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/btcguesser/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func guess() *model.ActiveGuess {
	return &model.ActiveGuess{
		InitialPrice: decimal.NewFromInt(100),
		Direction:    model.DirectionUp,
		SubmittedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestCreateAndGetPlayer() {
	rec := model.NewPlayerRecord("alice")
	rec.ActiveGuess = guess()

	err := s.storage.CreatePlayer(s.ctx, rec)
	s.Require().NoError(err)
	s.Equal(int64(1), rec.Version)

	retrieved, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), retrieved.PlayerID)
	s.Equal(int64(1), retrieved.Version)
	s.Require().NotNil(retrieved.ActiveGuess)
	s.True(retrieved.ActiveGuess.InitialPrice.Equal(decimal.NewFromInt(100)))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerTwiceFails() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice")))

	err := s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice"))
	s.ErrorIs(err, model.ErrPlayerExists)
}

func (s *StorageSuite) TestGetReturnsCopy() {
	rec := model.NewPlayerRecord("alice")
	rec.ActiveGuess = guess()
	_ = s.storage.CreatePlayer(s.ctx, rec)

	first, _ := s.storage.GetPlayer(s.ctx, "alice")
	first.Score = 99
	first.ActiveGuess = nil

	second, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, second.Score)
	s.NotNil(second.ActiveGuess)
}

func (s *StorageSuite) TestUpdatePlayerSucceedsOnMatchingVersion() {
	rec := model.NewPlayerRecord("alice")
	rec.ActiveGuess = guess()
	_ = s.storage.CreatePlayer(s.ctx, rec)

	current, _ := s.storage.GetPlayer(s.ctx, "alice")
	next := current.Clone()
	next.Score = 1
	next.ActiveGuess = nil

	err := s.storage.UpdatePlayer(s.ctx, current, next)
	s.Require().NoError(err)
	s.Equal(int64(2), next.Version)

	stored, _ := s.storage.GetPlayer(s.ctx, "alice")
	s.Equal(1, stored.Score)
	s.Nil(stored.ActiveGuess)
	s.Equal(int64(2), stored.Version)
}

func (s *StorageSuite) TestUpdatePlayerConflictsOnStaleVersion() {
	_ = s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice"))
	stale, _ := s.storage.GetPlayer(s.ctx, "alice")

	winner := stale.Clone()
	winner.Score = 1
	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, stale, winner))

	loser := stale.Clone()
	loser.Score = -1
	err := s.storage.UpdatePlayer(s.ctx, stale, loser)
	s.ErrorIs(err, model.ErrConflict)

	stored, _ := s.storage.GetPlayer(s.ctx, "alice")
	s.Equal(1, stored.Score)
}

func (s *StorageSuite) TestUpdateMissingPlayerConflicts() {
	rec := model.NewPlayerRecord("ghost")
	rec.Version = 1
	err := s.storage.UpdatePlayer(s.ctx, rec, rec.Clone())
	s.ErrorIs(err, model.ErrConflict)
}

func (s *StorageSuite) TestConcurrentUpdatesApplyOnce() {
	_ = s.storage.CreatePlayer(s.ctx, model.NewPlayerRecord("alice"))
	base, _ := s.storage.GetPlayer(s.ctx, "alice")

	const writers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := base.Clone()
			next.Score = base.Score + 1
			if err := s.storage.UpdatePlayer(s.ctx, base, next); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	stored, _ := s.storage.GetPlayer(s.ctx, "alice")
	s.Equal(1, stored.Score)
	s.Equal(1, s.storage.Len())
}
