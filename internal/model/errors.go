package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Request errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidDirection   = fmt.Errorf("%w: direction must be up or down", ErrInvalidInput)
	ErrGuessAlreadyActive = errors.New("an active guess already exists for this player")

	// Upstream errors
	ErrPriceUnavailable = errors.New("current price unavailable")
	ErrStorage          = errors.New("storage failure")

	// Store errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")
	ErrConflict       = errors.New("player record was modified concurrently")
)
