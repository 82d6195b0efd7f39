package factory

import (
	"time"

	"github.com/mcoot/btcguesser/internal/dependencies/mocks"
	"github.com/mcoot/btcguesser/internal/services/guess"
	"github.com/mcoot/btcguesser/internal/storage/memory"
	"github.com/mcoot/btcguesser/internal/testutil"
)

// TestStartPrice is the price the mock oracle reports until told otherwise
const TestStartPrice = 50000.0

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockOracle *mocks.MockOracle
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockOracle := mocks.NewMockOracle(TestStartPrice)

	app := newWithDependencies(store, mockClock, mockOracle, guess.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockOracle: mockOracle,
		Memory:     store,
	}
}

// ElapseWindow advances the mock clock past the resolution window
func (t *TestApp) ElapseWindow() {
	t.MockClock.Advance(t.GuessController.ResolutionWindow() + time.Second)
}
