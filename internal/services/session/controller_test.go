package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoretracker/internal/dependencies/mocks"
	"github.com/mcoot/scoretracker/internal/model"
	"github.com/mcoot/scoretracker/internal/services/round"
	"github.com/mcoot/scoretracker/internal/services/scoring"
	"github.com/mcoot/scoretracker/internal/storage"
	"github.com/mcoot/scoretracker/internal/storage/memory"
	"github.com/mcoot/scoretracker/internal/testutil"
)

type recordingPublisher struct {
	events []model.Event
}

func (p *recordingPublisher) Publish(event model.Event) {
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []model.EventType {
	out := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ids        *mocks.MockIDs
	publisher  *recordingPublisher
	logger     *slog.Logger
	logs       *testutil.LogRecorder
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	s.publisher = &recordingPublisher{}
	s.logger, s.logs = testutil.NewRecordingLogger()
	s.controller = s.newController(s.storage)
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(store storage.Storage) *Controller {
	return NewController(
		store,
		round.New(s.clock, s.ids),
		scoring.New(),
		s.clock,
		s.ids,
		s.publisher,
		s.logger,
	)
}

// Helpers

func (s *ControllerSuite) addPlayers(names ...string) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(names))
	for _, name := range names {
		p, err := s.controller.AddPlayer(s.ctx, name)
		s.Require().NoError(err)
		ids = append(ids, p.ID)
	}
	return ids
}

// startGame adds players and saves the rules 4, 2, -2, ...
func (s *ControllerSuite) startGame(names ...string) []model.PlayerID {
	ids := s.addPlayers(names...)
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))
	rules := model.DefaultScoringRules(len(ids))
	s.Require().NoError(s.controller.SaveRuleSet(s.ctx, rules))
	return ids
}

func (s *ControllerSuite) submit(ranks map[model.PlayerID]int, adjustments ...model.Adjustment) *model.Round {
	d := model.NewRoundDraft()
	for id, rank := range ranks {
		d.SetRank(id, rank)
	}
	r, err := s.controller.SubmitRound(s.ctx, d.Rankings(), adjustments)
	s.Require().NoError(err)
	return r
}

func (s *ControllerSuite) scores() map[model.PlayerID]int {
	out := map[model.PlayerID]int{}
	for _, p := range s.controller.Players() {
		out[p.ID] = p.Score
	}
	return out
}

func (s *ControllerSuite) stored(key storage.Key, dst any) {
	data, err := s.storage.Get(s.ctx, key)
	s.Require().NoError(err, "key %s should be stored", key)
	s.Require().NoError(json.Unmarshal(data, dst))
}

func (s *ControllerSuite) assertMissing(key storage.Key) {
	_, err := s.storage.Get(s.ctx, key)
	s.ErrorIs(err, storage.ErrKeyNotFound, "key %s should not be stored", key)
}

// Initial state

func (s *ControllerSuite) TestNewSessionIsEmpty() {
	snap := s.controller.Snapshot()

	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.False(snap.Started)
	s.Empty(snap.Players)
	s.Empty(snap.Rounds)
	s.Empty(snap.Rules)
	s.Empty(snap.Winners)
	s.False(snap.Degraded)
}

// AddPlayer tests

func (s *ControllerSuite) TestAddPlayerSucceeds() {
	s.ids.QueuePlayerIDs("alice-id")

	p, err := s.controller.AddPlayer(s.ctx, "  Alice ")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("alice-id"), p.ID)
	s.Equal("Alice", p.Name)
	s.Equal(0, p.Score)
	s.Equal([]model.Player{*p}, s.controller.Players())
}

func (s *ControllerSuite) TestAddPlayerIsPersisted() {
	s.addPlayers("Alice", "Bob")

	var players []model.Player
	s.stored(storage.KeyPlayers, &players)
	s.Require().Len(players, 2)
	s.Equal("Alice", players[0].Name)
	s.Equal("Bob", players[1].Name)
}

func (s *ControllerSuite) TestAddPlayerRejectsBlankName() {
	_, err := s.controller.AddPlayer(s.ctx, "")
	s.ErrorIs(err, model.ErrEmptyName)

	_, err = s.controller.AddPlayer(s.ctx, "   \t")
	s.ErrorIs(err, model.ErrEmptyName)
	s.True(model.IsValidation(err))

	s.Empty(s.controller.Players())
	s.Empty(s.publisher.events)
}

func (s *ControllerSuite) TestAddPlayerFailsAfterSetup() {
	s.addPlayers("Alice", "Bob")
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	_, err := s.controller.AddPlayer(s.ctx, "Carol")
	s.ErrorIs(err, model.ErrInvalidStage)
	s.Len(s.controller.Players(), 2)
}

// RemovePlayer tests

func (s *ControllerSuite) TestRemovePlayerSucceeds() {
	ids := s.addPlayers("Alice", "Bob", "Carol")

	s.Require().NoError(s.controller.RemovePlayer(s.ctx, ids[1]))

	players := s.controller.Players()
	s.Require().Len(players, 2)
	s.Equal("Alice", players[0].Name)
	s.Equal("Carol", players[1].Name)

	var stored []model.Player
	s.stored(storage.KeyPlayers, &stored)
	s.Len(stored, 2)
}

func (s *ControllerSuite) TestRemovePlayerNotFound() {
	s.addPlayers("Alice")

	err := s.controller.RemovePlayer(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.True(model.IsNotFound(err))
}

func (s *ControllerSuite) TestRemovePlayerFailsOnceStarted() {
	ids := s.startGame("Alice", "Bob")

	err := s.controller.RemovePlayer(s.ctx, ids[0])
	s.ErrorIs(err, model.ErrInvalidStage)
	s.Len(s.controller.Players(), 2)
}

// RenamePlayer tests

func (s *ControllerSuite) TestRenamePlayerDuringPlayKeepsScore() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	p, err := s.controller.RenamePlayer(s.ctx, ids[0], " Alicia ")
	s.Require().NoError(err)

	s.Equal("Alicia", p.Name)
	s.Equal(4, p.Score)
	s.Equal(4, s.scores()[ids[0]])
}

func (s *ControllerSuite) TestRenamePlayerRejectsBlankName() {
	ids := s.addPlayers("Alice")

	_, err := s.controller.RenamePlayer(s.ctx, ids[0], "  ")
	s.ErrorIs(err, model.ErrEmptyName)
	s.Equal("Alice", s.controller.Players()[0].Name)
}

func (s *ControllerSuite) TestRenamePlayerNotFound() {
	_, err := s.controller.RenamePlayer(s.ctx, "nobody", "Zed")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Stage transition tests

func (s *ControllerSuite) TestProceedRequiresTwoPlayers() {
	s.addPlayers("Alice")

	err := s.controller.ProceedToRuleSetup(s.ctx)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
	s.Equal(model.StagePlayerSetup, s.controller.Snapshot().Stage)
}

func (s *ControllerSuite) TestProceedAdvancesStage() {
	s.addPlayers("Alice", "Bob")

	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	s.Equal(model.StageRuleSetup, s.controller.Snapshot().Stage)
	var stage model.Stage
	s.stored(storage.KeyStage, &stage)
	s.Equal(model.StageRuleSetup, stage)
}

func (s *ControllerSuite) TestProceedIsForwardOnly() {
	s.addPlayers("Alice", "Bob")
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	s.ErrorIs(s.controller.ProceedToRuleSetup(s.ctx), model.ErrInvalidStage)
}

func (s *ControllerSuite) TestDefaultRulesFollowRosterSize() {
	s.addPlayers("A", "B", "C", "D")

	s.Equal([]model.ScoringRule{
		{Rank: 1, Points: 4},
		{Rank: 2, Points: 2},
		{Rank: 3, Points: -2},
		{Rank: 4, Points: -4},
	}, s.controller.DefaultRules())
}

// SaveRuleSet tests

func (s *ControllerSuite) TestSaveRuleSetStartsGame() {
	s.addPlayers("Alice", "Bob")
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	rules := []model.ScoringRule{{Rank: 2, Points: 0}, {Rank: 1, Points: 10}}
	s.Require().NoError(s.controller.SaveRuleSet(s.ctx, rules))

	snap := s.controller.Snapshot()
	s.Equal(model.StagePlaying, snap.Stage)
	s.True(snap.Started)
	s.Equal([]model.ScoringRule{{Rank: 1, Points: 10}, {Rank: 2, Points: 0}}, snap.Rules)

	var storedRules []model.ScoringRule
	s.stored(storage.KeyScoringRules, &storedRules)
	s.Equal(snap.Rules, storedRules)

	var started bool
	s.stored(storage.KeyGameStarted, &started)
	s.True(started)

	var stage model.Stage
	s.stored(storage.KeyStage, &stage)
	s.Equal(model.StagePlaying, stage)
}

func (s *ControllerSuite) TestSaveRuleSetRejectsDuplicateRank() {
	s.addPlayers("Alice", "Bob")
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	err := s.controller.SaveRuleSet(s.ctx, []model.ScoringRule{{Rank: 1, Points: 4}, {Rank: 1, Points: 2}})
	s.ErrorIs(err, model.ErrDuplicateRuleRank)

	snap := s.controller.Snapshot()
	s.Equal(model.StageRuleSetup, snap.Stage)
	s.False(snap.Started)
	s.assertMissing(storage.KeyScoringRules)
}

func (s *ControllerSuite) TestSaveRuleSetRequiresEveryRank() {
	s.addPlayers("Alice", "Bob", "Carol")
	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))

	err := s.controller.SaveRuleSet(s.ctx, []model.ScoringRule{{Rank: 1, Points: 4}, {Rank: 2, Points: 2}})
	s.ErrorIs(err, model.ErrIncompleteRules)
}

func (s *ControllerSuite) TestSaveRuleSetFailsOutsideRuleSetup() {
	s.addPlayers("Alice", "Bob")

	err := s.controller.SaveRuleSet(s.ctx, model.DefaultScoringRules(2))
	s.ErrorIs(err, model.ErrInvalidStage)
}

// SubmitRound tests

func (s *ControllerSuite) TestSubmitRoundFailsBeforePlay() {
	ids := s.addPlayers("Alice", "Bob")

	_, err := s.controller.SubmitRound(s.ctx, []model.Ranking{{PlayerID: ids[0], Rank: 1}, {PlayerID: ids[1], Rank: 2}}, nil)
	s.ErrorIs(err, model.ErrInvalidStage)
}

func (s *ControllerSuite) TestSubmitRoundEndToEnd() {
	ids := s.startGame("A", "B", "C")
	a, b, c := ids[0], ids[1], ids[2]

	s.submit(map[model.PlayerID]int{a: 1, b: 2, c: 3})
	s.Equal(map[model.PlayerID]int{a: 4, b: 2, c: -2}, s.scores())

	s.submit(map[model.PlayerID]int{a: 3, b: 1, c: 2},
		model.Adjustment{PlayerID: b, Points: -1, Reason: "late"})
	s.Equal(map[model.PlayerID]int{a: 2, b: 5, c: 0}, s.scores())

	snap := s.controller.Snapshot()
	s.Require().Len(snap.Winners, 1)
	s.Equal(b, snap.Winners[0].ID)
	s.Equal(b, snap.Standings[0].Player.ID)
	s.Equal(-1, snap.Standings[0].AdjustmentPoints)
}

func (s *ControllerSuite) TestSubmitRoundNumbersSequentially() {
	ids := s.startGame("A", "B")

	first := s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})
	second := s.submit(map[model.PlayerID]int{ids[0]: 2, ids[1]: 1})

	s.Equal(1, first.Number)
	s.Equal(2, second.Number)
	s.NotEqual(first.ID, second.ID)
}

func (s *ControllerSuite) TestSubmitRoundIsPersisted() {
	ids := s.startGame("A", "B")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2},
		model.Adjustment{PlayerID: ids[1], Points: 0, Reason: "x"})

	var rounds []model.Round
	s.stored(storage.KeyRounds, &rounds)
	s.Require().Len(rounds, 1)
	s.Empty(rounds[0].Adjustments, "zero adjustments are never persisted")

	var players []model.Player
	s.stored(storage.KeyPlayers, &players)
	s.Equal(4, players[0].Score)
	s.Equal(2, players[1].Score)
}

func (s *ControllerSuite) TestInvalidRoundLeavesStateUntouched() {
	ids := s.startGame("A", "B")
	s.publisher.events = nil

	_, err := s.controller.SubmitRound(s.ctx, []model.Ranking{{PlayerID: ids[0], Rank: 1}, {PlayerID: ids[1], Rank: 1}}, nil)
	s.ErrorIs(err, model.ErrDuplicateRank)

	s.Empty(s.controller.Rounds())
	s.Empty(s.publisher.events)
}

// Edit tests

func (s *ControllerSuite) TestRequestEditRound() {
	ids := s.startGame("A", "B")
	r := s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	got, err := s.controller.RequestEditRound(r.ID)
	s.Require().NoError(err)
	s.Equal(*r, *got)
	s.Equal(r.ID, s.controller.Snapshot().EditingRoundID)

	s.controller.CancelEdit()
	s.Empty(s.controller.Snapshot().EditingRoundID)
}

func (s *ControllerSuite) TestRequestEditRoundNotFound() {
	s.startGame("A", "B")

	_, err := s.controller.RequestEditRound("missing")
	s.ErrorIs(err, model.ErrRoundNotFound)
	s.Empty(s.controller.Snapshot().EditingRoundID)
}

func (s *ControllerSuite) TestEditRoundReplacesInPlace() {
	ids := s.startGame("A", "B", "C")
	a, b, c := ids[0], ids[1], ids[2]
	first := s.submit(map[model.PlayerID]int{a: 1, b: 2, c: 3})
	s.submit(map[model.PlayerID]int{a: 1, b: 2, c: 3})

	_, err := s.controller.RequestEditRound(first.ID)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)

	edited, err := s.controller.EditRound(s.ctx, first.ID,
		[]model.Ranking{{PlayerID: c, Rank: 1}, {PlayerID: b, Rank: 2}, {PlayerID: a, Rank: 3}}, nil)
	s.Require().NoError(err)

	s.Equal(first.ID, edited.ID)
	s.Equal(1, edited.Number)
	s.True(edited.Timestamp.After(first.Timestamp))

	rounds := s.controller.Rounds()
	s.Require().Len(rounds, 2)
	s.Equal(first.ID, rounds[0].ID)
	s.Equal(map[model.PlayerID]int{a: 2, b: 4, c: 2}, s.scores())
	s.Empty(s.controller.Snapshot().EditingRoundID)
}

func (s *ControllerSuite) TestEditRoundWithIdenticalEntriesKeepsScores() {
	ids := s.startGame("A", "B", "C")
	r := s.submit(map[model.PlayerID]int{ids[0]: 2, ids[1]: 1, ids[2]: 3},
		model.Adjustment{PlayerID: ids[2], Points: 5, Reason: "bonus"})
	before := s.controller.Snapshot()

	s.clock.Advance(time.Minute)
	edited, err := s.controller.SaveEditedRound(s.ctx, *r)
	s.Require().NoError(err)

	after := s.controller.Snapshot()
	s.Equal(before.Players, after.Players)
	s.Equal(before.Standings, after.Standings)
	s.Equal(r.Rankings, edited.Rankings)
	s.Equal(r.Adjustments, edited.Adjustments)
	s.NotEqual(r.Timestamp, edited.Timestamp)
}

func (s *ControllerSuite) TestEditRoundNotFound() {
	ids := s.startGame("A", "B")

	_, err := s.controller.EditRound(s.ctx, "missing", []model.Ranking{{PlayerID: ids[0], Rank: 1}, {PlayerID: ids[1], Rank: 2}}, nil)
	s.ErrorIs(err, model.ErrRoundNotFound)
}

func (s *ControllerSuite) TestInvalidEditLeavesRoundUntouched() {
	ids := s.startGame("A", "B")
	r := s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	_, err := s.controller.EditRound(s.ctx, r.ID, []model.Ranking{{PlayerID: ids[0], Rank: 1}}, nil)
	s.ErrorIs(err, model.ErrIncompleteRankings)

	got, err := s.controller.GetRound(r.ID)
	s.Require().NoError(err)
	s.Equal(*r, *got)
}

// Reset tests

func (s *ControllerSuite) TestResetPreservesRoster() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})
	s.submit(map[model.PlayerID]int{ids[0]: 2, ids[1]: 1})
	s.NotZero(s.scores()[ids[0]])

	s.Require().NoError(s.controller.RequestReset())
	s.Equal(model.PendingReset, s.controller.Snapshot().PendingAction)
	s.True(s.controller.ConfirmReset(s.ctx))

	snap := s.controller.Snapshot()
	s.Empty(snap.Rounds)
	s.Empty(snap.Rules)
	s.False(snap.Started)
	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.Equal(model.PendingNone, snap.PendingAction)
	s.Require().Len(snap.Players, 2)
	s.Equal("Alice", snap.Players[0].Name)
	s.Equal("Bob", snap.Players[1].Name)
	s.Equal(0, snap.Players[0].Score)
	s.Equal(0, snap.Players[1].Score)
}

func (s *ControllerSuite) TestResetStorageLayout() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	s.Require().NoError(s.controller.RequestReset())
	s.True(s.controller.ConfirmReset(s.ctx))

	s.assertMissing(storage.KeyRounds)
	s.assertMissing(storage.KeyScoringRules)

	var started bool
	s.stored(storage.KeyGameStarted, &started)
	s.False(started)

	var stage model.Stage
	s.stored(storage.KeyStage, &stage)
	s.Equal(model.StagePlayerSetup, stage)

	var players []model.Player
	s.stored(storage.KeyPlayers, &players)
	s.Require().Len(players, 2)
	s.Equal(0, players[0].Score)
}

func (s *ControllerSuite) TestConfirmResetWithoutRequestIsNoop() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	s.False(s.controller.ConfirmReset(s.ctx))

	s.Len(s.controller.Rounds(), 1)
	s.Equal(model.StagePlaying, s.controller.Snapshot().Stage)
}

func (s *ControllerSuite) TestCancelledResetIsNoop() {
	s.startGame("Alice", "Bob")

	s.Require().NoError(s.controller.RequestReset())
	s.controller.CancelPendingAction()

	s.False(s.controller.ConfirmReset(s.ctx))
	s.Equal(model.StagePlaying, s.controller.Snapshot().Stage)
}

func (s *ControllerSuite) TestRequestResetRequiresPlay() {
	s.addPlayers("Alice", "Bob")

	s.ErrorIs(s.controller.RequestReset(), model.ErrInvalidStage)
}

func (s *ControllerSuite) TestPendingClearDoesNotConfirmReset() {
	s.startGame("Alice", "Bob")

	s.controller.RequestClear()

	s.False(s.controller.ConfirmReset(s.ctx))
	s.Len(s.controller.Players(), 2)
}

func (s *ControllerSuite) TestGameCanRestartAfterReset() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})
	s.Require().NoError(s.controller.RequestReset())
	s.True(s.controller.ConfirmReset(s.ctx))

	s.Require().NoError(s.controller.ProceedToRuleSetup(s.ctx))
	s.Require().NoError(s.controller.SaveRuleSet(s.ctx, model.DefaultScoringRules(2)))
	r := s.submit(map[model.PlayerID]int{ids[0]: 2, ids[1]: 1})

	s.Equal(1, r.Number)
	s.Equal(map[model.PlayerID]int{ids[0]: 2, ids[1]: 4}, s.scores())
}

// Clear tests

func (s *ControllerSuite) TestClearRemovesEverything() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	s.controller.RequestClear()
	s.Equal(model.PendingClear, s.controller.Snapshot().PendingAction)
	s.True(s.controller.ConfirmClear(s.ctx))

	snap := s.controller.Snapshot()
	s.Empty(snap.Players)
	s.Empty(snap.Rounds)
	s.Empty(snap.Rules)
	s.False(snap.Started)
	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.Equal(model.PendingNone, snap.PendingAction)

	for _, key := range storage.AllKeys() {
		s.assertMissing(key)
	}
	s.Equal(0, s.storage.Len())
}

func (s *ControllerSuite) TestConfirmClearWithoutRequestIsNoop() {
	s.addPlayers("Alice")

	s.False(s.controller.ConfirmClear(s.ctx))
	s.Len(s.controller.Players(), 1)
}

// Event tests

func (s *ControllerSuite) TestEventsArePublished() {
	ids := s.startGame("Alice", "Bob")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2})

	s.Equal([]model.EventType{
		model.EventPlayerAdded,
		model.EventPlayerAdded,
		model.EventStageChanged,
		model.EventRulesSaved,
		model.EventStageChanged,
		model.EventRoundAdded,
	}, s.publisher.types())

	last := s.publisher.events[len(s.publisher.events)-1]
	payload, ok := last.Payload.(model.RoundPayload)
	s.Require().True(ok)
	s.Equal(1, payload.Round.Number)
	s.Len(payload.Standings, 2)
}

func (s *ControllerSuite) TestNilPublisherIsAllowed() {
	c := NewController(s.storage, round.New(s.clock, s.ids), scoring.New(), s.clock, s.ids, nil, testutil.NopLogger())

	_, err := c.AddPlayer(s.ctx, "Alice")
	s.NoError(err)
}
