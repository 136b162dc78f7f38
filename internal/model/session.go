package model

// Stage is the coarse setup/play state of a session.
// The string values are the persisted representation.
type Stage string

const (
	StagePlayerSetup Stage = "players" // Entering the roster
	StageRuleSetup   Stage = "scoring" // Configuring points per rank
	StagePlaying     Stage = "game"    // Rounds are being recorded
)

// Valid reports whether s is a known stage
func (s Stage) Valid() bool {
	switch s {
	case StagePlayerSetup, StageRuleSetup, StagePlaying:
		return true
	default:
		return false
	}
}

// PendingAction is a destructive action awaiting confirmation
type PendingAction string

const (
	PendingNone  PendingAction = ""
	PendingReset PendingAction = "reset"
	PendingClear PendingAction = "clear"
)

// Snapshot is a read-only copy of the session state handed to the presentation layer
type Snapshot struct {
	Stage          Stage         `json:"stage"`
	Started        bool          `json:"started"`
	Players        []Player      `json:"players"`
	Rounds         []Round       `json:"rounds"`
	Rules          []ScoringRule `json:"rules"`
	Standings      []Standing    `json:"standings"`
	Winners        []Player      `json:"winners"`
	EditingRoundID RoundID       `json:"editing_round_id,omitempty"`
	PendingAction  PendingAction `json:"pending_action,omitempty"`
	Degraded       bool          `json:"degraded"` // storage unavailable, running in memory only
}
