package response

import (
	"time"

	"github.com/mcoot/scoretracker/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:    string(p.ID),
		Name:  p.Name,
		Score: p.Score,
	}
}

// PlayersFromModel converts a roster
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// ScoringRule represents a rank/points pair
type ScoringRule struct {
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

// RulesFromModel converts scoring rules
func RulesFromModel(rules []model.ScoringRule) []ScoringRule {
	out := make([]ScoringRule, len(rules))
	for i, r := range rules {
		out[i] = ScoringRule{Rank: r.Rank, Points: r.Points}
	}
	return out
}

// Ranking represents a player's position in a round
type Ranking struct {
	PlayerID string `json:"player_id"`
	Rank     int    `json:"rank"`
}

// Adjustment represents a manual point correction
type Adjustment struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
	Reason   string `json:"reason,omitempty"`
}

// Round represents a recorded round
type Round struct {
	ID          string       `json:"id"`
	Number      int          `json:"number"`
	Rankings    []Ranking    `json:"rankings"`
	Adjustments []Adjustment `json:"adjustments"`
	Timestamp   time.Time    `json:"timestamp"`
}

// RoundFromModel converts a model.Round
func RoundFromModel(r model.Round) Round {
	rankings := make([]Ranking, len(r.Rankings))
	for i, rk := range r.Rankings {
		rankings[i] = Ranking{PlayerID: string(rk.PlayerID), Rank: rk.Rank}
	}
	adjustments := make([]Adjustment, len(r.Adjustments))
	for i, a := range r.Adjustments {
		adjustments[i] = Adjustment{PlayerID: string(a.PlayerID), Points: a.Points, Reason: a.Reason}
	}
	return Round{
		ID:          string(r.ID),
		Number:      r.Number,
		Rankings:    rankings,
		Adjustments: adjustments,
		Timestamp:   r.Timestamp,
	}
}

// RoundsFromModel converts a round history
func RoundsFromModel(rounds []model.Round) []Round {
	out := make([]Round, len(rounds))
	for i, r := range rounds {
		out[i] = RoundFromModel(r)
	}
	return out
}

// Standing represents one leaderboard row
type Standing struct {
	Position         int    `json:"position"`
	Player           Player `json:"player"`
	RankPoints       int    `json:"rank_points"`
	AdjustmentPoints int    `json:"adjustment_points"`
	Total            int    `json:"total"`
}

// StandingsFromModel converts a leaderboard
func StandingsFromModel(standings []model.Standing) []Standing {
	out := make([]Standing, len(standings))
	for i, s := range standings {
		out[i] = Standing{
			Position:         s.Position,
			Player:           PlayerFromModel(s.Player),
			RankPoints:       s.RankPoints,
			AdjustmentPoints: s.AdjustmentPoints,
			Total:            s.Total,
		}
	}
	return out
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Standings []Standing `json:"standings"`
	Winners   []Player   `json:"winners"`
}

// Session represents the full session state
type Session struct {
	Stage          string        `json:"stage"`
	Started        bool          `json:"started"`
	Players        []Player      `json:"players"`
	Rounds         []Round       `json:"rounds"`
	Rules          []ScoringRule `json:"rules"`
	Standings      []Standing    `json:"standings"`
	Winners        []Player      `json:"winners"`
	EditingRoundID string        `json:"editing_round_id,omitempty"`
	PendingAction  string        `json:"pending_action,omitempty"`
	Degraded       bool          `json:"degraded"`
}

// SessionFromModel converts a model.Snapshot
func SessionFromModel(s model.Snapshot) Session {
	return Session{
		Stage:          string(s.Stage),
		Started:        s.Started,
		Players:        PlayersFromModel(s.Players),
		Rounds:         RoundsFromModel(s.Rounds),
		Rules:          RulesFromModel(s.Rules),
		Standings:      StandingsFromModel(s.Standings),
		Winners:        PlayersFromModel(s.Winners),
		EditingRoundID: string(s.EditingRoundID),
		PendingAction:  string(s.PendingAction),
		Degraded:       s.Degraded,
	}
}

// Confirmation is the response for confirming a destructive action
type Confirmation struct {
	Performed bool    `json:"performed"`
	Session   Session `json:"session"`
}
