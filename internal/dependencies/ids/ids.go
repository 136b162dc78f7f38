package ids

import (
	"github.com/google/uuid"

	"github.com/mcoot/scoretracker/internal/model"
)

// Generator mints identifiers for new players and rounds
type Generator interface {
	NewPlayerID() model.PlayerID
	NewRoundID() model.RoundID
}

// UUIDGenerator implements Generator with random (v4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewPlayerID returns a fresh player id
func (g *UUIDGenerator) NewPlayerID() model.PlayerID {
	return model.PlayerID(uuid.NewString())
}

// NewRoundID returns a fresh round id
func (g *UUIDGenerator) NewRoundID() model.RoundID {
	return model.RoundID(uuid.NewString())
}
