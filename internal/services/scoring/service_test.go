package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoretracker/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	rules   model.ScoringRuleSet
	players []model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()

	rules, err := model.NewScoringRuleSet([]model.ScoringRule{
		{Rank: 1, Points: 4},
		{Rank: 2, Points: 2},
		{Rank: 3, Points: -2},
	})
	s.Require().NoError(err)
	s.rules = rules

	s.players = []model.Player{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	}
}

// Helper to build a round from a player -> rank map
func round(number int, ranks map[model.PlayerID]int, adjustments ...model.Adjustment) model.Round {
	d := model.NewRoundDraft()
	for id, rank := range ranks {
		d.SetRank(id, rank)
	}
	return model.Round{
		ID:          model.RoundID("r" + string(rune('0'+number))),
		Number:      number,
		Rankings:    d.Rankings(),
		Adjustments: adjustments,
		Timestamp:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *ServiceSuite) twoRounds() []model.Round {
	return []model.Round{
		round(1, map[model.PlayerID]int{"a": 1, "b": 2, "c": 3}),
		round(2, map[model.PlayerID]int{"a": 3, "b": 1, "c": 2},
			model.Adjustment{PlayerID: "b", Points: -1, Reason: "late"}),
	}
}

func (s *ServiceSuite) TestScoreForNoRounds() {
	s.Equal(0, s.service.ScoreFor("a", nil, s.rules))
}

func (s *ServiceSuite) TestScoreForSingleRound() {
	rounds := s.twoRounds()[:1]

	s.Equal(4, s.service.ScoreFor("a", rounds, s.rules))
	s.Equal(2, s.service.ScoreFor("b", rounds, s.rules))
	s.Equal(-2, s.service.ScoreFor("c", rounds, s.rules))
}

func (s *ServiceSuite) TestScoreForCumulativeWithAdjustment() {
	rounds := s.twoRounds()

	s.Equal(2, s.service.ScoreFor("a", rounds, s.rules))
	s.Equal(5, s.service.ScoreFor("b", rounds, s.rules))
	s.Equal(0, s.service.ScoreFor("c", rounds, s.rules))
}

func (s *ServiceSuite) TestScoreForIsDeterministic() {
	rounds := s.twoRounds()
	before := model.CloneRounds(rounds)

	first := s.service.ScoreFor("b", rounds, s.rules)
	second := s.service.ScoreFor("b", rounds, s.rules)

	s.Equal(first, second)
	s.Equal(before, rounds, "rounds must not be mutated")
}

func (s *ServiceSuite) TestScoreForAbsentPlayerIsZero() {
	s.Equal(0, s.service.ScoreFor("ghost", s.twoRounds(), s.rules))
}

func (s *ServiceSuite) TestScoreForUndefinedRankIsZero() {
	partial, err := model.NewScoringRuleSet([]model.ScoringRule{{Rank: 1, Points: 10}})
	s.Require().NoError(err)

	rounds := s.twoRounds()[:1]
	s.Equal(10, s.service.ScoreFor("a", rounds, partial))
	s.Equal(0, s.service.ScoreFor("c", rounds, partial))
}

func (s *ServiceSuite) TestBreakdown() {
	b := s.service.Breakdown("b", s.twoRounds(), s.rules)

	s.Equal(6, b.RankPoints)
	s.Equal(-1, b.AdjustmentPoints)
	s.Equal(5, b.Total)
}

func (s *ServiceSuite) TestRecomputeAll() {
	s.players[0].Score = 99

	updated := s.service.RecomputeAll(s.players, s.twoRounds(), s.rules)

	s.Require().Len(updated, 3)
	s.Equal(2, updated[0].Score)
	s.Equal(5, updated[1].Score)
	s.Equal(0, updated[2].Score)
	s.Equal("A", updated[0].Name)
	s.Equal(99, s.players[0].Score, "input roster must not be mutated")
}

func (s *ServiceSuite) TestWinnersSingle() {
	players := s.service.RecomputeAll(s.players, s.twoRounds(), s.rules)

	winners := s.service.Winners(players)

	s.Require().Len(winners, 1)
	s.Equal(model.PlayerID("b"), winners[0].ID)
}

func (s *ServiceSuite) TestWinnersTie() {
	players := []model.Player{
		{ID: "a", Score: 10},
		{ID: "b", Score: 10},
		{ID: "c", Score: 5},
	}

	winners := s.service.Winners(players)

	s.Len(winners, 2)
	s.Equal(model.PlayerID("a"), winners[0].ID)
	s.Equal(model.PlayerID("b"), winners[1].ID)
}

func (s *ServiceSuite) TestWinnersNegativeScores() {
	players := []model.Player{
		{ID: "a", Score: -4},
		{ID: "b", Score: -2},
	}

	winners := s.service.Winners(players)

	s.Require().Len(winners, 1)
	s.Equal(model.PlayerID("b"), winners[0].ID)
}

func (s *ServiceSuite) TestWinnersEmpty() {
	s.Empty(s.service.Winners(nil))
}

func (s *ServiceSuite) TestWinnersBeforeAnyRoundIsEveryone() {
	s.Len(s.service.Winners(s.players), 3)
}

func (s *ServiceSuite) TestStandings() {
	standings := s.service.Standings(s.players, s.twoRounds(), s.rules)

	s.Require().Len(standings, 3)
	s.Equal(model.PlayerID("b"), standings[0].Player.ID)
	s.Equal(1, standings[0].Position)
	s.Equal(5, standings[0].Total)
	s.Equal(5, standings[0].Player.Score)
	s.Equal(model.PlayerID("a"), standings[1].Player.ID)
	s.Equal(2, standings[1].Position)
	s.Equal(model.PlayerID("c"), standings[2].Player.ID)
	s.Equal(3, standings[2].Position)
}

func (s *ServiceSuite) TestStandingsTiesSharePosition() {
	rounds := []model.Round{
		round(1, map[model.PlayerID]int{"a": 1, "b": 2, "c": 3},
			model.Adjustment{PlayerID: "b", Points: 2}),
	}

	standings := s.service.Standings(s.players, rounds, s.rules)

	s.Equal(model.PlayerID("a"), standings[0].Player.ID)
	s.Equal(1, standings[0].Position)
	s.Equal(model.PlayerID("b"), standings[1].Player.ID)
	s.Equal(1, standings[1].Position)
	s.Equal(3, standings[2].Position)
}
