package model

import "sort"

// ScoringRule awards Points to the player finishing at Rank
type ScoringRule struct {
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

// ScoringRuleSet maps a finishing rank to the points it awards.
// The zero value is an empty rule set that awards nothing.
type ScoringRuleSet struct {
	rules  []ScoringRule
	points map[int]int
}

// NewScoringRuleSet builds a rule set, rejecting duplicate or non-positive ranks
func NewScoringRuleSet(rules []ScoringRule) (ScoringRuleSet, error) {
	points := make(map[int]int, len(rules))
	for _, r := range rules {
		if r.Rank < 1 {
			return ScoringRuleSet{}, ErrInvalidRuleRank
		}
		if _, exists := points[r.Rank]; exists {
			return ScoringRuleSet{}, ErrDuplicateRuleRank
		}
		points[r.Rank] = r.Points
	}

	sorted := make([]ScoringRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})

	return ScoringRuleSet{rules: sorted, points: points}, nil
}

// PointsForRank returns the points for rank, or 0 when no rule covers it
func (rs ScoringRuleSet) PointsForRank(rank int) int {
	return rs.points[rank]
}

// Rules returns a copy of the rules ordered by rank
func (rs ScoringRuleSet) Rules() []ScoringRule {
	out := make([]ScoringRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs ScoringRuleSet) Len() int {
	return len(rs.rules)
}

// ValidateFor checks that the rule set defines exactly ranks 1..playerCount
func (rs ScoringRuleSet) ValidateFor(playerCount int) error {
	if len(rs.rules) != playerCount {
		return ErrIncompleteRules
	}
	for rank := 1; rank <= playerCount; rank++ {
		if _, ok := rs.points[rank]; !ok {
			return ErrIncompleteRules
		}
	}
	return nil
}

// DefaultScoringRules returns the suggested rules for the given player count:
// 1st +4, 2nd +2, 3rd -2 and -4 for every rank below that
func DefaultScoringRules(playerCount int) []ScoringRule {
	rules := make([]ScoringRule, 0, playerCount)
	for rank := 1; rank <= playerCount; rank++ {
		var points int
		switch rank {
		case 1:
			points = 4
		case 2:
			points = 2
		case 3:
			points = -2
		default:
			points = -4
		}
		rules = append(rules, ScoringRule{Rank: rank, Points: points})
	}
	return rules
}

// ScoreBreakdown splits a player's total into rank points and manual adjustments
type ScoreBreakdown struct {
	RankPoints       int `json:"rank_points"`
	AdjustmentPoints int `json:"adjustment_points"`
	Total            int `json:"total"`
}

// Standing is one row of the leaderboard
type Standing struct {
	Position int    `json:"position"` // 1-based, tied players share a position
	Player   Player `json:"player"`
	ScoreBreakdown
}
