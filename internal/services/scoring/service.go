package scoring

import (
	"sort"

	"github.com/mcoot/scoretracker/internal/model"
)

// Service derives player scores from the round history and the active rule set.
// Every method is pure: inputs are never mutated and equal inputs give equal results.
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// ScoreFor returns a player's total across all rounds
func (s *Service) ScoreFor(playerID model.PlayerID, rounds []model.Round, rules model.ScoringRuleSet) int {
	return s.Breakdown(playerID, rounds, rules).Total
}

// Breakdown walks the round history once, splitting rank points from adjustments.
// Rounds in which the player has no ranking or adjustment contribute nothing.
func (s *Service) Breakdown(playerID model.PlayerID, rounds []model.Round, rules model.ScoringRuleSet) model.ScoreBreakdown {
	var b model.ScoreBreakdown
	for i := range rounds {
		if rank, ok := rounds[i].RankFor(playerID); ok {
			b.RankPoints += rules.PointsForRank(rank)
		}
		if adj, ok := rounds[i].AdjustmentFor(playerID); ok {
			b.AdjustmentPoints += adj.Points
		}
	}
	b.Total = b.RankPoints + b.AdjustmentPoints
	return b
}

// RecomputeAll returns a copy of the roster with every score replaced
func (s *Service) RecomputeAll(players []model.Player, rounds []model.Round, rules model.ScoringRuleSet) []model.Player {
	out := make([]model.Player, len(players))
	for i, p := range players {
		out[i] = p
		out[i].Score = s.ScoreFor(p.ID, rounds, rules)
	}
	return out
}

// Winners returns every player sharing the highest score, in roster order.
// Ties produce multiple winners; no players produce none.
func (s *Service) Winners(players []model.Player) []model.Player {
	winners := []model.Player{}
	if len(players) == 0 {
		return winners
	}

	top := players[0].Score
	for _, p := range players[1:] {
		if p.Score > top {
			top = p.Score
		}
	}

	for _, p := range players {
		if p.Score == top {
			winners = append(winners, p)
		}
	}
	return winners
}

// Standings returns the leaderboard ordered by total descending.
// Tied players keep roster order and share a position (1, 1, 3).
func (s *Service) Standings(players []model.Player, rounds []model.Round, rules model.ScoringRuleSet) []model.Standing {
	standings := make([]model.Standing, len(players))
	for i, p := range players {
		b := s.Breakdown(p.ID, rounds, rules)
		p.Score = b.Total
		standings[i] = model.Standing{Player: p, ScoreBreakdown: b}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	for i := range standings {
		if i > 0 && standings[i].Total == standings[i-1].Total {
			standings[i].Position = standings[i-1].Position
		} else {
			standings[i].Position = i + 1
		}
	}

	return standings
}

// Interface for dependency injection
type ServiceInterface interface {
	ScoreFor(playerID model.PlayerID, rounds []model.Round, rules model.ScoringRuleSet) int
	Breakdown(playerID model.PlayerID, rounds []model.Round, rules model.ScoringRuleSet) model.ScoreBreakdown
	RecomputeAll(players []model.Player, rounds []model.Round, rules model.ScoringRuleSet) []model.Player
	Winners(players []model.Player) []model.Player
	Standings(players []model.Player, rounds []model.Round, rules model.ScoringRuleSet) []model.Standing
}

var _ ServiceInterface = (*Service)(nil)
