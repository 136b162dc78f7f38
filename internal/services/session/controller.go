package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/scoretracker/internal/dependencies/clock"
	"github.com/mcoot/scoretracker/internal/dependencies/ids"
	"github.com/mcoot/scoretracker/internal/model"
	"github.com/mcoot/scoretracker/internal/services/round"
	"github.com/mcoot/scoretracker/internal/services/scoring"
	"github.com/mcoot/scoretracker/internal/storage"
)

// Controller owns a game session: the roster, round history, scoring rules and
// the setup stage machine. Intents are serialised; each one completes, including
// the write-through to storage, before the next begins. A failed intent leaves
// the session untouched.
type Controller struct {
	storage        storage.Storage
	roundService   *round.Service
	scoringService *scoring.Service
	clock          clock.Clock
	ids            ids.Generator
	publisher      Publisher
	logger         *slog.Logger

	mu       sync.Mutex
	players  []model.Player
	rounds   []model.Round
	rules    model.ScoringRuleSet
	stage    model.Stage
	started  bool
	editing  model.RoundID
	pending  model.PendingAction
	degraded bool
}

// NewController creates a new SessionController with an empty session.
// Call Load to restore persisted state.
func NewController(
	storage storage.Storage,
	roundService *round.Service,
	scoringService *scoring.Service,
	clock clock.Clock,
	ids ids.Generator,
	publisher Publisher,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Controller{
		storage:        storage,
		roundService:   roundService,
		scoringService: scoringService,
		clock:          clock,
		ids:            ids,
		publisher:      publisher,
		logger:         logger.With(slog.String("component", "session")),
		players:        []model.Player{},
		rounds:         []model.Round{},
		stage:          model.StagePlayerSetup,
	}
}

// Snapshot returns a read-only copy of the current session
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() model.Snapshot {
	players := model.ClonePlayers(c.players)
	return model.Snapshot{
		Stage:          c.stage,
		Started:        c.started,
		Players:        players,
		Rounds:         model.CloneRounds(c.rounds),
		Rules:          c.rules.Rules(),
		Standings:      c.scoringService.Standings(players, c.rounds, c.rules),
		Winners:        c.scoringService.Winners(players),
		EditingRoundID: c.editing,
		PendingAction:  c.pending,
		Degraded:       c.degraded,
	}
}

// Players returns the roster in entry order
func (c *Controller) Players() []model.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.ClonePlayers(c.players)
}

// Rounds returns the round history in submission order
func (c *Controller) Rounds() []model.Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneRounds(c.rounds)
}

// GetRound returns a single round by id
func (c *Controller) GetRound(id model.RoundID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := model.FindRound(c.rounds, id)
	if idx < 0 {
		return nil, model.ErrRoundNotFound
	}
	r := c.rounds[idx].Clone()
	return &r, nil
}

// Rules returns the active scoring rules ordered by rank
func (c *Controller) Rules() []model.ScoringRule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rules.Rules()
}

// Standings returns the current leaderboard
func (c *Controller) Standings() []model.Standing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scoringService.Standings(c.players, c.rounds, c.rules)
}

// DefaultRules returns the suggested rules for the current roster size
func (c *Controller) DefaultRules() []model.ScoringRule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.DefaultScoringRules(len(c.players))
}

// AddPlayer appends a player to the roster during player setup
func (c *Controller) AddPlayer(ctx context.Context, name string) (*model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlayerSetup {
		return nil, model.ErrInvalidStage
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}

	player := model.Player{ID: c.ids.NewPlayerID(), Name: name}
	c.players = append(c.players, player)
	c.save(ctx, map[storage.Key]any{storage.KeyPlayers: c.players})

	c.logger.Info("player added",
		slog.String("player_id", string(player.ID)),
		slog.Int("player_count", len(c.players)),
	)
	c.publish(model.EventPlayerAdded, model.PlayerPayload{Player: player})

	return &player, nil
}

// RemovePlayer drops a player from the roster during player setup
func (c *Controller) RemovePlayer(ctx context.Context, id model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlayerSetup {
		return model.ErrInvalidStage
	}
	idx := model.FindPlayer(c.players, id)
	if idx < 0 {
		return model.ErrPlayerNotFound
	}

	removed := c.players[idx]
	c.players = append(c.players[:idx:idx], c.players[idx+1:]...)
	c.save(ctx, map[storage.Key]any{storage.KeyPlayers: c.players})

	c.logger.Info("player removed",
		slog.String("player_id", string(id)),
		slog.Int("player_count", len(c.players)),
	)
	c.publish(model.EventPlayerRemoved, model.PlayerPayload{Player: removed})

	return nil
}

// RenamePlayer replaces a player's name in any stage. Scores are untouched.
func (c *Controller) RenamePlayer(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	idx := model.FindPlayer(c.players, id)
	if idx < 0 {
		return nil, model.ErrPlayerNotFound
	}

	c.players[idx].Name = name
	c.save(ctx, map[storage.Key]any{storage.KeyPlayers: c.players})

	player := c.players[idx]
	c.logger.Info("player renamed", slog.String("player_id", string(id)))
	c.publish(model.EventPlayerRenamed, model.PlayerPayload{Player: player})

	return &player, nil
}

// ProceedToRuleSetup closes the roster and moves on to rule configuration
func (c *Controller) ProceedToRuleSetup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlayerSetup {
		return model.ErrInvalidStage
	}
	if len(c.players) < 2 {
		return model.ErrInsufficientPlayers
	}

	c.setStage(ctx, model.StageRuleSetup, nil)
	return nil
}

// SaveRuleSet stores the scoring rules and starts the game
func (c *Controller) SaveRuleSet(ctx context.Context, rules []model.ScoringRule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StageRuleSetup {
		return model.ErrInvalidStage
	}
	rs, err := model.NewScoringRuleSet(rules)
	if err != nil {
		return err
	}
	if err := rs.ValidateFor(len(c.players)); err != nil {
		return err
	}

	c.rules = rs
	c.started = true
	c.players = c.scoringService.RecomputeAll(c.players, c.rounds, c.rules)

	c.logger.Info("scoring rules saved", slog.Int("rule_count", rs.Len()))
	c.publish(model.EventRulesSaved, model.RulesSavedPayload{Rules: rs.Rules()})

	c.setStage(ctx, model.StagePlaying, map[storage.Key]any{
		storage.KeyScoringRules: rs.Rules(),
		storage.KeyGameStarted:  true,
		storage.KeyPlayers:      c.players,
	})
	return nil
}

// SubmitRound records a new round numbered after the existing history
func (c *Controller) SubmitRound(ctx context.Context, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlaying {
		return nil, model.ErrInvalidStage
	}

	r, err := c.roundService.CreateRound(len(c.rounds)+1, model.PlayerIDs(c.players), rankings, adjustments)
	if err != nil {
		return nil, err
	}

	c.rounds = append(c.rounds, *r)
	c.players = c.scoringService.RecomputeAll(c.players, c.rounds, c.rules)
	c.save(ctx, map[storage.Key]any{
		storage.KeyRounds:  c.rounds,
		storage.KeyPlayers: c.players,
	})

	c.logger.Info("round added",
		slog.String("round_id", string(r.ID)),
		slog.Int("round_number", r.Number),
	)
	c.publish(model.EventRoundAdded, model.RoundPayload{
		Round:     r.Clone(),
		Standings: c.scoringService.Standings(c.players, c.rounds, c.rules),
	})

	out := r.Clone()
	return &out, nil
}

// RequestEditRound marks a round as being edited and returns a copy of it
func (c *Controller) RequestEditRound(id model.RoundID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlaying {
		return nil, model.ErrInvalidStage
	}
	idx := model.FindRound(c.rounds, id)
	if idx < 0 {
		return nil, model.ErrRoundNotFound
	}

	c.editing = id
	r := c.rounds[idx].Clone()
	return &r, nil
}

// EditRound replaces a round in place, keeping its id and number
func (c *Controller) EditRound(ctx context.Context, id model.RoundID, rankings []model.Ranking, adjustments []model.Adjustment) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlaying {
		return nil, model.ErrInvalidStage
	}
	idx := model.FindRound(c.rounds, id)
	if idx < 0 {
		return nil, model.ErrRoundNotFound
	}

	edited, err := c.roundService.EditRound(c.rounds[idx], rankings, adjustments)
	if err != nil {
		return nil, err
	}

	c.rounds[idx] = *edited
	c.players = c.scoringService.RecomputeAll(c.players, c.rounds, c.rules)
	if c.editing == id {
		c.editing = ""
	}
	c.save(ctx, map[storage.Key]any{
		storage.KeyRounds:  c.rounds,
		storage.KeyPlayers: c.players,
	})

	c.logger.Info("round edited",
		slog.String("round_id", string(id)),
		slog.Int("round_number", edited.Number),
	)
	c.publish(model.EventRoundEdited, model.RoundPayload{
		Round:     edited.Clone(),
		Standings: c.scoringService.Standings(c.players, c.rounds, c.rules),
	})

	out := edited.Clone()
	return &out, nil
}

// SaveEditedRound stores an edited copy of a round obtained from RequestEditRound
func (c *Controller) SaveEditedRound(ctx context.Context, edited model.Round) (*model.Round, error) {
	return c.EditRound(ctx, edited.ID, edited.Rankings, edited.Adjustments)
}

// CancelEdit abandons the round edit in progress
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = ""
}

// RequestReset asks for confirmation before resetting the game
func (c *Controller) RequestReset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != model.StagePlaying {
		return model.ErrInvalidStage
	}
	c.pending = model.PendingReset
	return nil
}

// ConfirmReset discards rounds and rules, zeroes every score and returns to
// player setup with the roster intact. Without a pending reset request it does
// nothing and reports false.
func (c *Controller) ConfirmReset(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != model.PendingReset {
		return false
	}
	c.pending = model.PendingNone

	roundCount := len(c.rounds)
	from := c.stage

	c.rounds = []model.Round{}
	c.rules = model.ScoringRuleSet{}
	c.started = false
	c.editing = ""
	c.stage = model.StagePlayerSetup
	c.players = c.scoringService.RecomputeAll(c.players, c.rounds, c.rules)

	c.save(ctx, map[storage.Key]any{
		storage.KeyPlayers:     c.players,
		storage.KeyGameStarted: false,
		storage.KeyStage:       c.stage,
	}, storage.KeyRounds, storage.KeyScoringRules)

	c.logger.Info("game reset",
		slog.Int("discarded_rounds", roundCount),
		slog.Int("player_count", len(c.players)),
	)
	c.publish(model.EventGameReset, model.StageChangedPayload{From: from, To: c.stage})

	return true
}

// RequestClear asks for confirmation before erasing all session data
func (c *Controller) RequestClear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = model.PendingClear
}

// ConfirmClear empties the roster, rounds and rules and removes every stored
// key. Without a pending clear request it does nothing and reports false.
func (c *Controller) ConfirmClear(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != model.PendingClear {
		return false
	}

	c.resetState()
	c.save(ctx, nil, storage.AllKeys()...)

	c.logger.Info("session data cleared")
	c.publish(model.EventDataCleared, nil)

	return true
}

// CancelPendingAction withdraws an unconfirmed reset or clear request
func (c *Controller) CancelPendingAction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = model.PendingNone
}

// resetState returns every in-memory field to its empty default.
// The degraded flag survives: storage did not recover just because data was cleared.
func (c *Controller) resetState() {
	c.players = []model.Player{}
	c.rounds = []model.Round{}
	c.rules = model.ScoringRuleSet{}
	c.stage = model.StagePlayerSetup
	c.started = false
	c.editing = ""
	c.pending = model.PendingNone
}

// setStage moves to a new stage, writing the stage with any extra values
func (c *Controller) setStage(ctx context.Context, to model.Stage, extra map[storage.Key]any) {
	from := c.stage
	c.stage = to

	values := map[storage.Key]any{storage.KeyStage: to}
	for k, v := range extra {
		values[k] = v
	}
	c.save(ctx, values)

	c.logger.Info("stage changed",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	c.publish(model.EventStageChanged, model.StageChangedPayload{From: from, To: to})
}

func (c *Controller) publish(eventType model.EventType, payload any) {
	c.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		Payload:   payload,
	})
}
