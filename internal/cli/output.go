package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mcoot/scoretracker/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	names  map[string]string // player id -> name, for labelling rounds
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// WithPlayers lets round output show player names instead of ids
func (o *Output) WithPlayers(players []Player) *Output {
	o.names = make(map[string]string, len(players))
	for _, p := range players {
		o.names[p.ID] = p.Name
	}
	return o
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case []ScoringRule:
		o.printRules(v)
	case Round:
		o.printRound(v)
	case []Round:
		o.printRounds(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Session:
		o.printSession(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoringRule response type
type ScoringRule struct {
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

// Ranking response type
type Ranking struct {
	PlayerID string `json:"player_id"`
	Rank     int    `json:"rank"`
}

// Adjustment response type
type Adjustment struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
	Reason   string `json:"reason,omitempty"`
}

// Round response type
type Round struct {
	ID          string       `json:"id"`
	Number      int          `json:"number"`
	Rankings    []Ranking    `json:"rankings"`
	Adjustments []Adjustment `json:"adjustments"`
	Timestamp   time.Time    `json:"timestamp"`
}

// toModel converts a fetched round so it can seed a round draft
func (r Round) toModel() model.Round {
	out := model.Round{ID: model.RoundID(r.ID), Number: r.Number, Timestamp: r.Timestamp}
	for _, rk := range r.Rankings {
		out.Rankings = append(out.Rankings, model.Ranking{PlayerID: model.PlayerID(rk.PlayerID), Rank: rk.Rank})
	}
	for _, a := range r.Adjustments {
		out.Adjustments = append(out.Adjustments, model.Adjustment{PlayerID: model.PlayerID(a.PlayerID), Points: a.Points, Reason: a.Reason})
	}
	return out
}

// Standing response type
type Standing struct {
	Position         int    `json:"position"`
	Player           Player `json:"player"`
	RankPoints       int    `json:"rank_points"`
	AdjustmentPoints int    `json:"adjustment_points"`
	Total            int    `json:"total"`
}

// Leaderboard response type
type Leaderboard struct {
	Standings []Standing `json:"standings"`
	Winners   []Player   `json:"winners"`
}

// Session response type
type Session struct {
	Stage          string        `json:"stage"`
	Started        bool          `json:"started"`
	Players        []Player      `json:"players"`
	Rounds         []Round       `json:"rounds"`
	Rules          []ScoringRule `json:"rules"`
	Standings      []Standing    `json:"standings"`
	Winners        []Player      `json:"winners"`
	EditingRoundID string        `json:"editing_round_id,omitempty"`
	PendingAction  string        `json:"pending_action,omitempty"`
	Degraded       bool          `json:"degraded"`
}

// Confirmation response type
type Confirmation struct {
	Performed bool    `json:"performed"`
	Session   Session `json:"session"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Ordinal formats a finishing position for display: 1st, 2nd, 3rd, 4th, 11th, 21st
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func formatPoints(points int) string {
	if points > 0 {
		return fmt.Sprintf("+%d", points)
	}
	return fmt.Sprintf("%d", points)
}

func (o *Output) playerName(id string) string {
	if name, ok := o.names[id]; ok {
		return name
	}
	return id
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Score: %d\n", p.Score)
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCORE")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", p.ID, p.Name, p.Score)
	}
	_ = tw.Flush()
}

func (o *Output) printRules(rules []ScoringRule) {
	if len(rules) == 0 {
		fmt.Fprintln(o.w, "No scoring rules")
		return
	}
	for _, r := range rules {
		fmt.Fprintf(o.w, "  %-5s %s\n", Ordinal(r.Rank), formatPoints(r.Points))
	}
}

func (o *Output) printRound(r Round) {
	places := make([]string, len(r.Rankings))
	for i, rk := range r.Rankings {
		places[i] = fmt.Sprintf("%s %s", Ordinal(rk.Rank), o.playerName(rk.PlayerID))
	}
	fmt.Fprintf(o.w, "Round %d: %s\n", r.Number, strings.Join(places, ", "))

	for _, a := range r.Adjustments {
		line := fmt.Sprintf("  %s %s", o.playerName(a.PlayerID), formatPoints(a.Points))
		if a.Reason != "" {
			line += fmt.Sprintf(" (%s)", a.Reason)
		}
		fmt.Fprintln(o.w, line)
	}
}

func (o *Output) printRounds(rounds []Round) {
	if len(rounds) == 0 {
		fmt.Fprintln(o.w, "No rounds played")
		return
	}
	for _, r := range rounds {
		o.printRound(r)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tPLAYER\tRANK PTS\tADJ\tTOTAL")
	for _, s := range l.Standings {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n",
			Ordinal(s.Position), s.Player.Name, s.RankPoints, formatPoints(s.AdjustmentPoints), s.Total)
	}
	_ = tw.Flush()

	if len(l.Winners) > 0 {
		names := make([]string, len(l.Winners))
		for i, w := range l.Winners {
			names[i] = w.Name
		}
		label := "Leader"
		if len(names) > 1 {
			label = "Tied leaders"
		}
		fmt.Fprintf(o.w, "\n%s: %s\n", label, strings.Join(names, ", "))
	}
}

func (o *Output) printSession(s Session) {
	fmt.Fprintf(o.w, "Stage: %s\n", s.Stage)
	fmt.Fprintf(o.w, "Rounds played: %d\n", len(s.Rounds))
	if s.EditingRoundID != "" {
		fmt.Fprintf(o.w, "Editing round: %s\n", s.EditingRoundID)
	}
	if s.PendingAction != "" {
		fmt.Fprintf(o.w, "Awaiting confirmation: %s\n", s.PendingAction)
	}
	if s.Degraded {
		fmt.Fprintln(o.w, "Warning: storage unavailable, changes are not being saved")
	}

	fmt.Fprintf(o.w, "\nPlayers (%d):\n", len(s.Players))
	o.printPlayers(s.Players)

	if len(s.Rules) > 0 {
		fmt.Fprintln(o.w, "\nScoring:")
		o.printRules(s.Rules)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
