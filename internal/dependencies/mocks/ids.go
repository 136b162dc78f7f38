package mocks

import (
	"fmt"

	"github.com/mcoot/scoretracker/internal/dependencies/ids"
	"github.com/mcoot/scoretracker/internal/model"
)

// MockIDs is a deterministic id generator for testing.
// Queued ids are returned first; after that ids are numbered sequentially
// ("player-1", "round-1", ...).
type MockIDs struct {
	PlayerIDs []model.PlayerID
	RoundIDs  []model.RoundID

	playerCount int
	roundCount  int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewPlayerID returns the next queued player id, or the next sequential one
func (m *MockIDs) NewPlayerID() model.PlayerID {
	m.playerCount++
	if len(m.PlayerIDs) > 0 {
		id := m.PlayerIDs[0]
		m.PlayerIDs = m.PlayerIDs[1:]
		return id
	}
	return model.PlayerID(fmt.Sprintf("player-%d", m.playerCount))
}

// NewRoundID returns the next queued round id, or the next sequential one
func (m *MockIDs) NewRoundID() model.RoundID {
	m.roundCount++
	if len(m.RoundIDs) > 0 {
		id := m.RoundIDs[0]
		m.RoundIDs = m.RoundIDs[1:]
		return id
	}
	return model.RoundID(fmt.Sprintf("round-%d", m.roundCount))
}

// QueuePlayerIDs adds values to the player id queue
func (m *MockIDs) QueuePlayerIDs(values ...model.PlayerID) {
	m.PlayerIDs = append(m.PlayerIDs, values...)
}

// QueueRoundIDs adds values to the round id queue
func (m *MockIDs) QueueRoundIDs(values ...model.RoundID) {
	m.RoundIDs = append(m.RoundIDs, values...)
}
