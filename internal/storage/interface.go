package storage

import (
	"context"

	"github.com/mcoot/btcguesser/internal/model"
)

// Storage is the Player Store. Every write is conditional on the state the
// caller last read, so concurrent requests for one player cannot lose updates.
type Storage interface {
	// GetPlayer returns a copy of the stored record, or model.ErrPlayerNotFound
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error)

	// CreatePlayer stores rec only if no record exists for rec.PlayerID,
	// returning model.ErrPlayerExists otherwise. The stored version is 1.
	CreatePlayer(ctx context.Context, rec *model.PlayerRecord) error

	// UpdatePlayer replaces the stored record with next only if the stored
	// version still equals expected.Version, returning model.ErrConflict
	// otherwise (including when the record is missing). On success
	// next.Version is set to expected.Version+1.
	UpdatePlayer(ctx context.Context, expected, next *model.PlayerRecord) error
}
