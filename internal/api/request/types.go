package request

import "github.com/mcoot/scoretracker/internal/model"

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// RenamePlayerRequest is the request body for renaming a player
type RenamePlayerRequest struct {
	Name string `json:"name"`
}

// ScoringRule is one rank/points pair
type ScoringRule struct {
	Rank   int `json:"rank" validate:"gte=1"`
	Points int `json:"points"`
}

// SaveRulesRequest is the request body for saving the scoring rules
type SaveRulesRequest struct {
	Rules []ScoringRule `json:"rules" validate:"required,min=1,dive"`
}

// ToModel converts the request rules
func (r SaveRulesRequest) ToModel() []model.ScoringRule {
	out := make([]model.ScoringRule, len(r.Rules))
	for i, rule := range r.Rules {
		out[i] = model.ScoringRule{Rank: rule.Rank, Points: rule.Points}
	}
	return out
}

// Ranking is one player's finishing position
type Ranking struct {
	PlayerID string `json:"player_id" validate:"required"`
	Rank     int    `json:"rank" validate:"gte=1"`
}

// Adjustment is a manual point correction
type Adjustment struct {
	PlayerID string `json:"player_id" validate:"required"`
	Points   int    `json:"points"`
	Reason   string `json:"reason"`
}

// RoundRequest is the request body for submitting or editing a round
type RoundRequest struct {
	Rankings    []Ranking    `json:"rankings" validate:"required,min=1,dive"`
	Adjustments []Adjustment `json:"adjustments" validate:"dive"`
}

// RankingsToModel converts the request rankings
func (r RoundRequest) RankingsToModel() []model.Ranking {
	out := make([]model.Ranking, len(r.Rankings))
	for i, rk := range r.Rankings {
		out[i] = model.Ranking{PlayerID: model.PlayerID(rk.PlayerID), Rank: rk.Rank}
	}
	return out
}

// AdjustmentsToModel converts the request adjustments
func (r RoundRequest) AdjustmentsToModel() []model.Adjustment {
	out := make([]model.Adjustment, len(r.Adjustments))
	for i, a := range r.Adjustments {
		out[i] = model.Adjustment{PlayerID: model.PlayerID(a.PlayerID), Points: a.Points, Reason: a.Reason}
	}
	return out
}
