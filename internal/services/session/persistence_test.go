package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/scoretracker/internal/model"
	"github.com/mcoot/scoretracker/internal/storage"
)

// failingStorage rejects every operation
type failingStorage struct {
	calls int
}

var errUnavailable = errors.New("storage unavailable")

func (f *failingStorage) Get(context.Context, storage.Key) ([]byte, error) {
	f.calls++
	return nil, errUnavailable
}

func (f *failingStorage) Set(context.Context, storage.Key, []byte) error {
	f.calls++
	return errUnavailable
}

func (f *failingStorage) SetMany(context.Context, map[storage.Key][]byte) error {
	f.calls++
	return errUnavailable
}

func (f *failingStorage) Delete(context.Context, ...storage.Key) error {
	f.calls++
	return errUnavailable
}

func (f *failingStorage) Close() error { return nil }

func (s *ControllerSuite) TestLoadEmptyStorageGivesDefaults() {
	s.controller.Load(s.ctx)

	snap := s.controller.Snapshot()
	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.False(snap.Started)
	s.Empty(snap.Players)
	s.Empty(snap.Rounds)
	s.Empty(snap.Rules)
	s.False(snap.Degraded)
}

func (s *ControllerSuite) TestLoadRestoresSession() {
	ids := s.startGame("A", "B", "C")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2, ids[2]: 3})
	s.submit(map[model.PlayerID]int{ids[0]: 3, ids[1]: 1, ids[2]: 2},
		model.Adjustment{PlayerID: ids[1], Points: -1, Reason: "late"})
	before := s.controller.Snapshot()

	restored := s.newController(s.storage)
	restored.Load(s.ctx)
	after := restored.Snapshot()

	s.Equal(model.StagePlaying, after.Stage)
	s.True(after.Started)
	s.Equal(before.Players, after.Players)
	s.Equal(before.Rules, after.Rules)
	s.Equal(before.Standings, after.Standings)
	s.Require().Len(after.Rounds, 2)
	s.Equal(before.Rounds[1].ID, after.Rounds[1].ID)
	s.True(before.Rounds[1].Timestamp.Equal(after.Rounds[1].Timestamp))
}

func (s *ControllerSuite) TestLoadRecomputesStaleScores() {
	_ = s.storage.Set(s.ctx, storage.KeyPlayers, []byte(`[{"id":"a","name":"A","score":100},{"id":"b","name":"B","score":100}]`))
	_ = s.storage.Set(s.ctx, storage.KeyScoringRules, []byte(`[{"rank":1,"points":4},{"rank":2,"points":2}]`))
	_ = s.storage.Set(s.ctx, storage.KeyRounds, []byte(`[{"id":"r1","number":1,"rankings":[{"playerId":"b","rank":1},{"playerId":"a","rank":2}],"adjustments":[],"timestamp":"2024-01-01T12:00:00Z"}]`))
	_ = s.storage.Set(s.ctx, storage.KeyGameStarted, []byte(`true`))
	_ = s.storage.Set(s.ctx, storage.KeyStage, []byte(`"game"`))

	s.controller.Load(s.ctx)

	s.Equal(map[model.PlayerID]int{"a": 2, "b": 4}, s.scores())
	s.Equal(model.StagePlaying, s.controller.Snapshot().Stage)
}

func (s *ControllerSuite) TestLoadIgnoresCorruptKeys() {
	_ = s.storage.Set(s.ctx, storage.KeyPlayers, []byte(`[{"id":"a","name":"A","score":0}]`))
	_ = s.storage.Set(s.ctx, storage.KeyRounds, []byte(`not json`))
	_ = s.storage.Set(s.ctx, storage.KeyStage, []byte(`"finished"`))
	_ = s.storage.Set(s.ctx, storage.KeyScoringRules, []byte(`[{"rank":1,"points":1},{"rank":1,"points":2}]`))

	s.controller.Load(s.ctx)

	snap := s.controller.Snapshot()
	s.Len(snap.Players, 1)
	s.Empty(snap.Rounds)
	s.Empty(snap.Rules)
	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.False(snap.Degraded)

	s.Len(s.logs.Find(slog.LevelWarn, "ignoring corrupt stored value"), 1)
	s.Len(s.logs.Find(slog.LevelWarn, "ignoring stored stage"), 1)
	s.Len(s.logs.Find(slog.LevelWarn, "ignoring stored scoring rules"), 1)
}

func (s *ControllerSuite) TestLoadGameWithoutRulesReturnsToRuleSetup() {
	ids := s.startGame("A", "B", "C")
	s.submit(map[model.PlayerID]int{ids[0]: 1, ids[1]: 2, ids[2]: 3})
	_ = s.storage.Set(s.ctx, storage.KeyScoringRules, []byte(`{"broken"`))

	restored := s.newController(s.storage)
	restored.Load(s.ctx)

	snap := restored.Snapshot()
	s.Equal(model.StageRuleSetup, snap.Stage)
	s.False(snap.Started)
	s.Len(snap.Rounds, 1)
	s.Len(s.logs.Find(slog.LevelWarn, "stored game has no scoring rules, returning to setup"), 1)

	// Saving rules again resumes the game and rescores the kept round
	s.Require().NoError(restored.SaveRuleSet(s.ctx, model.DefaultScoringRules(3)))
	snap = restored.Snapshot()
	s.Equal(model.StagePlaying, snap.Stage)
	s.Equal(4, snap.Players[0].Score)
}

func (s *ControllerSuite) TestLoadGameWithoutRulesOrRosterReturnsToPlayerSetup() {
	_ = s.storage.Set(s.ctx, storage.KeyPlayers, []byte(`[{"id":"a","name":"A","score":0}]`))
	_ = s.storage.Set(s.ctx, storage.KeyGameStarted, []byte(`true`))
	_ = s.storage.Set(s.ctx, storage.KeyStage, []byte(`"game"`))

	s.controller.Load(s.ctx)

	snap := s.controller.Snapshot()
	s.Equal(model.StagePlayerSetup, snap.Stage)
	s.False(snap.Started)
}

func (s *ControllerSuite) TestLoadFromUnavailableStorageDegrades() {
	c := s.newController(&failingStorage{})

	c.Load(s.ctx)

	s.True(c.Degraded())
	s.Empty(c.Players())
}

func (s *ControllerSuite) TestWriteFailureDegradesWithoutFailingIntent() {
	store := &failingStorage{}
	c := s.newController(store)

	p, err := c.AddPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal("Alice", p.Name)
	s.True(c.Snapshot().Degraded)

	// Memory-only from here on: storage is not touched again
	calls := store.calls
	_, err = c.AddPlayer(s.ctx, "Bob")
	s.Require().NoError(err)
	s.Equal(calls, store.calls)

	s.Require().NoError(c.ProceedToRuleSetup(s.ctx))
	s.Require().NoError(c.SaveRuleSet(s.ctx, model.DefaultScoringRules(2)))
	s.Len(c.Players(), 2)
	s.Equal(model.StagePlaying, c.Snapshot().Stage)

	// Warned once, when the first write failed
	warnings := s.logs.Find(slog.LevelWarn, "storage unavailable, continuing in memory only")
	s.Require().Len(warnings, 1)
	s.Equal("write", warnings[0]["op"])
}

func (s *ControllerSuite) TestDegradedSurvivesClear() {
	c := s.newController(&failingStorage{})
	_, _ = c.AddPlayer(s.ctx, "Alice")

	c.RequestClear()
	s.True(c.ConfirmClear(s.ctx))

	s.True(c.Degraded())
	s.Empty(c.Players())
}
