package storage

import (
	"context"
	"errors"
)

// Key names one persisted session value
type Key string

// Persisted session keys. Each holds a JSON document.
const (
	KeyPlayers      Key = "players"          // array of {id, name, score}
	KeyGameStarted  Key = "gameStarted"      // boolean
	KeyRounds       Key = "gameRounds"       // array of rounds
	KeyScoringRules Key = "gameScoringRules" // array of {rank, points}
	KeyStage        Key = "gameSetupStage"   // "players" | "scoring" | "game"
)

// AllKeys returns every session key
func AllKeys() []Key {
	return []Key{KeyPlayers, KeyGameStarted, KeyRounds, KeyScoringRules, KeyStage}
}

// ErrKeyNotFound is returned by Get when a key has never been written or was deleted
var ErrKeyNotFound = errors.New("key not found")

// Storage is the durable key-value store behind a session.
// Values are opaque bytes; every write replaces the whole value.
type Storage interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// SetMany writes several keys together, atomically where the backend allows
	SetMany(ctx context.Context, values map[Key][]byte) error
	Delete(ctx context.Context, keys ...Key) error
	Close() error
}
