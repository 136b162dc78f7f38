package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Roster events
	EventPlayerAdded   EventType = "player_added"
	EventPlayerRemoved EventType = "player_removed"
	EventPlayerRenamed EventType = "player_renamed"

	// Setup events
	EventStageChanged EventType = "stage_changed"
	EventRulesSaved   EventType = "rules_saved"

	// Play events
	EventRoundAdded  EventType = "round_added"
	EventRoundEdited EventType = "round_edited"
	EventGameReset   EventType = "game_reset"
	EventDataCleared EventType = "data_cleared"
)

// Event describes a completed session change
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"` // Type-specific data
}

// PlayerPayload contains data for roster events
type PlayerPayload struct {
	Player Player `json:"player"`
}

// StageChangedPayload contains data for stage changed events
type StageChangedPayload struct {
	From Stage `json:"from"`
	To   Stage `json:"to"`
}

// RoundPayload contains data for round events, with the leaderboard after the change
type RoundPayload struct {
	Round     Round      `json:"round"`
	Standings []Standing `json:"standings"`
}

// RulesSavedPayload contains data for rules saved events
type RulesSavedPayload struct {
	Rules []ScoringRule `json:"rules"`
}
