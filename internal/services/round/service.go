package round

import (
	"fmt"
	"sort"

	"github.com/mcoot/scoretracker/internal/dependencies/clock"
	"github.com/mcoot/scoretracker/internal/dependencies/ids"
	"github.com/mcoot/scoretracker/internal/model"
)

// Service builds and validates rounds
type Service struct {
	clock clock.Clock
	ids   ids.Generator
}

// New creates a new RoundService
func New(clock clock.Clock, ids ids.Generator) *Service {
	return &Service{
		clock: clock,
		ids:   ids,
	}
}

// CreateRound validates rankings and adjustments against the roster and
// returns a new round stamped with the current time.
// Zero-point adjustments are dropped before storing.
func (s *Service) CreateRound(number int, roster []model.PlayerID, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error) {
	sortedRankings, err := validateRankings(roster, rankings)
	if err != nil {
		return nil, err
	}
	kept, err := validateAdjustments(roster, adjustments)
	if err != nil {
		return nil, err
	}

	return &model.Round{
		ID:          s.ids.NewRoundID(),
		Number:      number,
		Rankings:    sortedRankings,
		Adjustments: kept,
		Timestamp:   s.clock.Now(),
	}, nil
}

// EditRound re-validates a round's replacement entries against the players
// originally ranked in it. ID and Number are preserved and Timestamp refreshed.
func (s *Service) EditRound(existing model.Round, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error) {
	original := existing.PlayerIDs()

	sortedRankings, err := validateRankings(original, rankings)
	if err != nil {
		return nil, err
	}
	kept, err := validateAdjustments(original, adjustments)
	if err != nil {
		return nil, err
	}

	return &model.Round{
		ID:          existing.ID,
		Number:      existing.Number,
		Rankings:    sortedRankings,
		Adjustments: kept,
		Timestamp:   s.clock.Now(),
	}, nil
}

// validateRankings checks that every player is ranked exactly once with a
// distinct rank in 1..len(players), returning a copy ordered by rank
func validateRankings(players []model.PlayerID, rankings []model.Ranking) ([]model.Ranking, error) {
	if len(rankings) != len(players) {
		return nil, fmt.Errorf("%w: got %d rankings for %d players", model.ErrIncompleteRankings, len(rankings), len(players))
	}

	expected := make(map[model.PlayerID]bool, len(players))
	for _, id := range players {
		expected[id] = false
	}

	ranks := make(map[int]struct{}, len(rankings))
	for _, rk := range rankings {
		seen, ok := expected[rk.PlayerID]
		if !ok || seen {
			return nil, fmt.Errorf("%w: unexpected ranking for player %s", model.ErrIncompleteRankings, rk.PlayerID)
		}
		expected[rk.PlayerID] = true

		if rk.Rank < 1 || rk.Rank > len(players) {
			return nil, fmt.Errorf("%w: %d", model.ErrRankOutOfRange, rk.Rank)
		}
		ranks[rk.Rank] = struct{}{}
	}

	if len(ranks) != len(rankings) {
		return nil, model.ErrDuplicateRank
	}

	out := make([]model.Ranking, len(rankings))
	copy(out, rankings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

// validateAdjustments checks adjustments reference round players at most once
// and drops zero-point entries
func validateAdjustments(players []model.PlayerID, adjustments []model.Adjustment) ([]model.Adjustment, error) {
	inRound := make(map[model.PlayerID]struct{}, len(players))
	for _, id := range players {
		inRound[id] = struct{}{}
	}

	kept := []model.Adjustment{}
	seen := make(map[model.PlayerID]struct{}, len(adjustments))
	for _, adj := range adjustments {
		if _, ok := inRound[adj.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownPlayer, adj.PlayerID)
		}
		if _, dup := seen[adj.PlayerID]; dup {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateAdjustment, adj.PlayerID)
		}
		seen[adj.PlayerID] = struct{}{}

		if adj.Points == 0 {
			continue
		}
		kept = append(kept, adj)
	}
	return kept, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	CreateRound(number int, roster []model.PlayerID, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error)
	EditRound(existing model.Round, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error)
}

var _ ServiceInterface = (*Service)(nil)
