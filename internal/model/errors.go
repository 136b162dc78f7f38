package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of these so callers
// can branch with errors.Is on the kind alone.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidStage = errors.New("not permitted in the current stage")
)

// Player errors
var (
	ErrEmptyName           = fmt.Errorf("%w: player name must not be empty", ErrValidation)
	ErrInsufficientPlayers = fmt.Errorf("%w: at least 2 players are required", ErrValidation)
	ErrPlayerNotFound      = fmt.Errorf("player %w", ErrNotFound)
)

// Round errors
var (
	ErrIncompleteRankings  = fmt.Errorf("%w: every player must be ranked exactly once", ErrValidation)
	ErrDuplicateRank       = fmt.Errorf("%w: each player must have a unique rank", ErrValidation)
	ErrRankOutOfRange      = fmt.Errorf("%w: rank is out of range", ErrValidation)
	ErrUnknownPlayer       = fmt.Errorf("%w: adjustment references a player outside the round", ErrValidation)
	ErrDuplicateAdjustment = fmt.Errorf("%w: at most one adjustment per player", ErrValidation)
	ErrRoundNotFound       = fmt.Errorf("round %w", ErrNotFound)
)

// Scoring rule errors
var (
	ErrDuplicateRuleRank = fmt.Errorf("%w: duplicate scoring rule rank", ErrValidation)
	ErrInvalidRuleRank   = fmt.Errorf("%w: scoring rule rank must be positive", ErrValidation)
	ErrIncompleteRules   = fmt.Errorf("%w: scoring rules must cover every rank", ErrValidation)
)

// IsValidation reports whether err is a recoverable validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err refers to a missing player or round
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
