package model

// PlayerID uniquely identifies a player for the lifetime of a session
type PlayerID string

// Player represents a game participant.
// Score is a cached projection of the round history and is only ever written by
// the scoring engine.
type Player struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Score int      `json:"score"`
}

// PlayerIDs returns the ids of the given players in roster order
func PlayerIDs(players []Player) []PlayerID {
	ids := make([]PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// FindPlayer returns the index of the player with the given id, or -1
func FindPlayer(players []Player, id PlayerID) int {
	for i := range players {
		if players[i].ID == id {
			return i
		}
	}
	return -1
}

// ClonePlayers returns a copy of the roster safe to hand to callers
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return []Player{}
	}
	out := make([]Player, len(players))
	copy(out, players)
	return out
}
