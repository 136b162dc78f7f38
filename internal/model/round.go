package model

import (
	"sort"
	"time"
)

// RoundID uniquely identifies a round
type RoundID string

// Ranking is a single player's finishing position within a round
type Ranking struct {
	PlayerID PlayerID `json:"playerId"`
	Rank     int      `json:"rank"`
}

// Adjustment is a manual point correction for one player in one round
type Adjustment struct {
	PlayerID PlayerID `json:"playerId"`
	Points   int      `json:"points"`
	Reason   string   `json:"reason"`
}

// Round is one completed scoring event
type Round struct {
	ID          RoundID      `json:"id"`
	Number      int          `json:"number"` // 1-based, assigned at creation and never renumbered
	Rankings    []Ranking    `json:"rankings"`
	Adjustments []Adjustment `json:"adjustments"`
	Timestamp   time.Time    `json:"timestamp"` // creation or last edit
}

// RankFor returns the player's rank in this round
func (r *Round) RankFor(playerID PlayerID) (int, bool) {
	for _, rk := range r.Rankings {
		if rk.PlayerID == playerID {
			return rk.Rank, true
		}
	}
	return 0, false
}

// AdjustmentFor returns the player's adjustment in this round
func (r *Round) AdjustmentFor(playerID PlayerID) (Adjustment, bool) {
	for _, a := range r.Adjustments {
		if a.PlayerID == playerID {
			return a, true
		}
	}
	return Adjustment{}, false
}

// PlayerIDs returns the players ranked in this round, ordered by rank
func (r *Round) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, len(r.Rankings))
	for i, rk := range r.Rankings {
		ids[i] = rk.PlayerID
	}
	return ids
}

// Clone returns a deep copy of the round
func (r Round) Clone() Round {
	out := r
	out.Rankings = append([]Ranking{}, r.Rankings...)
	out.Adjustments = append([]Adjustment{}, r.Adjustments...)
	return out
}

// CloneRounds deep-copies a round history
func CloneRounds(rounds []Round) []Round {
	out := make([]Round, len(rounds))
	for i := range rounds {
		out[i] = rounds[i].Clone()
	}
	return out
}

// FindRound returns the index of the round with the given id, or -1
func FindRound(rounds []Round, id RoundID) int {
	for i := range rounds {
		if rounds[i].ID == id {
			return i
		}
	}
	return -1
}

// AdjustmentDraft is the in-progress adjustment for one player
type AdjustmentDraft struct {
	Points int
	Reason string
}

// RoundDraft collects rankings and adjustments keyed by player while a round is
// entered or edited. It performs no validation beyond the live duplicate-rank
// check; the round service validates the full round on submit.
type RoundDraft struct {
	ranks       map[PlayerID]int
	adjustments map[PlayerID]AdjustmentDraft
}

// NewRoundDraft creates an empty draft
func NewRoundDraft() *RoundDraft {
	return &RoundDraft{
		ranks:       make(map[PlayerID]int),
		adjustments: make(map[PlayerID]AdjustmentDraft),
	}
}

// DraftFromRound pre-fills a draft with an existing round's entries
func DraftFromRound(round Round) *RoundDraft {
	d := NewRoundDraft()
	for _, rk := range round.Rankings {
		d.SetRank(rk.PlayerID, rk.Rank)
	}
	for _, a := range round.Adjustments {
		d.SetAdjustment(a.PlayerID, a.Points, a.Reason)
	}
	return d
}

// SetRank records a player's finishing position, replacing any previous value
func (d *RoundDraft) SetRank(playerID PlayerID, rank int) {
	d.ranks[playerID] = rank
}

// SetAdjustment records a player's adjustment, replacing any previous value
func (d *RoundDraft) SetAdjustment(playerID PlayerID, points int, reason string) {
	d.adjustments[playerID] = AdjustmentDraft{Points: points, Reason: reason}
}

// ClearAdjustment removes a player's adjustment
func (d *RoundDraft) ClearAdjustment(playerID PlayerID) {
	delete(d.adjustments, playerID)
}

// RankedCount returns how many players have a rank
func (d *RoundDraft) RankedCount() int {
	return len(d.ranks)
}

// HasDuplicateRanks reports whether two players currently share a rank
func (d *RoundDraft) HasDuplicateRanks() bool {
	seen := make(map[int]struct{}, len(d.ranks))
	for _, rank := range d.ranks {
		seen[rank] = struct{}{}
	}
	return len(seen) != len(d.ranks)
}

// Rankings returns the draft rankings ordered by rank, then player id
func (d *RoundDraft) Rankings() []Ranking {
	out := make([]Ranking, 0, len(d.ranks))
	for id, rank := range d.ranks {
		out = append(out, Ranking{PlayerID: id, Rank: rank})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// Adjustments returns the non-zero draft adjustments ordered by player id
func (d *RoundDraft) Adjustments() []Adjustment {
	out := make([]Adjustment, 0, len(d.adjustments))
	for id, a := range d.adjustments {
		if a.Points == 0 {
			continue
		}
		out = append(out, Adjustment{PlayerID: id, Points: a.Points, Reason: a.Reason})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
