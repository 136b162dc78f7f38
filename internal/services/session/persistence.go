package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mcoot/scoretracker/internal/model"
	"github.com/mcoot/scoretracker/internal/storage"
)

// Load restores the session from storage. Each key is read independently:
// a missing key yields its zero value, an unreadable or corrupt key is logged
// and treated as missing. A storage failure switches the session to
// memory-only operation. A game stored without scoring rules goes back to
// setup. Scores are recomputed from the loaded rounds.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetState()

	var players []model.Player
	if c.read(ctx, storage.KeyPlayers, &players) && players != nil {
		c.players = players
	}

	var started bool
	if c.read(ctx, storage.KeyGameStarted, &started) {
		c.started = started
	}

	var rounds []model.Round
	if c.read(ctx, storage.KeyRounds, &rounds) && rounds != nil {
		c.rounds = rounds
	}

	var rules []model.ScoringRule
	if c.read(ctx, storage.KeyScoringRules, &rules) {
		rs, err := model.NewScoringRuleSet(rules)
		if err != nil {
			c.logger.Warn("ignoring stored scoring rules", slog.String("error", err.Error()))
		} else {
			c.rules = rs
		}
	}

	var stage model.Stage
	if c.read(ctx, storage.KeyStage, &stage) {
		if stage.Valid() {
			c.stage = stage
		} else {
			c.logger.Warn("ignoring stored stage", slog.String("stage", string(stage)))
		}
	}

	if c.stage == model.StagePlaying && c.rules.Len() == 0 {
		c.stage = model.StageRuleSetup
		if len(c.players) < 2 {
			c.stage = model.StagePlayerSetup
		}
		c.started = false
		c.logger.Warn("stored game has no scoring rules, returning to setup",
			slog.String("stage", string(c.stage)),
		)
	}

	c.players = c.scoringService.RecomputeAll(c.players, c.rounds, c.rules)

	c.logger.Info("session loaded",
		slog.String("stage", string(c.stage)),
		slog.Int("player_count", len(c.players)),
		slog.Int("round_count", len(c.rounds)),
		slog.Bool("degraded", c.degraded),
	)
}

// read decodes one key into dst, reporting whether a value was found
func (c *Controller) read(ctx context.Context, key storage.Key, dst any) bool {
	if c.degraded {
		return false
	}

	data, err := c.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false
		}
		c.degrade("read", key, err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("ignoring corrupt stored value",
			slog.String("key", string(key)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// save writes each value in full and removes the given keys.
// Write failures never fail the intent; the session continues in memory.
func (c *Controller) save(ctx context.Context, values map[storage.Key]any, remove ...storage.Key) {
	if c.degraded {
		return
	}

	if len(values) > 0 {
		encoded := make(map[storage.Key][]byte, len(values))
		for key, v := range values {
			data, err := json.Marshal(v)
			if err != nil {
				c.degrade("encode", key, err)
				return
			}
			encoded[key] = data
		}
		if err := c.storage.SetMany(ctx, encoded); err != nil {
			c.degrade("write", "", err)
			return
		}
	}

	if len(remove) > 0 {
		if err := c.storage.Delete(ctx, remove...); err != nil {
			c.degrade("delete", "", err)
		}
	}
}

func (c *Controller) degrade(op string, key storage.Key, err error) {
	c.degraded = true
	attrs := []any{
		slog.String("op", op),
		slog.String("error", err.Error()),
	}
	if key != "" {
		attrs = append(attrs, slog.String("key", string(key)))
	}
	c.logger.Warn("storage unavailable, continuing in memory only", attrs...)
}

// Degraded reports whether the session has stopped writing to storage
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}
