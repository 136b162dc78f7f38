package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/scoretracker/internal/model"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round recording commands",
	}

	cmd.AddCommand(newRoundListCmd())
	cmd.AddCommand(newRoundAddCmd())
	cmd.AddCommand(newRoundEditCmd())

	return cmd
}

func newRoundListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rounds []Round
			if err := client.Get(cmd.Context(), "/api/v1/rounds", &rounds); err != nil {
				return err
			}
			players, err := fetchPlayers(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).WithPlayers(players).Print(rounds)
			return nil
		},
	}
}

func newRoundAddCmd() *cobra.Command {
	var adjust []string

	cmd := &cobra.Command{
		Use:   "add <player>...",
		Short: "Record a round in finishing order",
		Long: `Record a round. List every player in finishing order, winner first.

Adjustments take the form player=points or player=points:reason:

  scoretracker round add alice carol bob --adjust bob=-1:late`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := fetchPlayers(cmd.Context())
			if err != nil {
				return err
			}

			draft := model.NewRoundDraft()
			if err := setOrder(draft, players, args); err != nil {
				return err
			}
			if err := setAdjustments(draft, players, adjust); err != nil {
				return err
			}

			var result Round
			if err := client.Post(cmd.Context(), "/api/v1/rounds", roundRequest(draft), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).WithPlayers(players).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&adjust, "adjust", nil, "Point adjustment as player=points[:reason] (repeatable)")

	return cmd
}

func newRoundEditCmd() *cobra.Command {
	var (
		adjust           []string
		clearAdjustments bool
	)

	cmd := &cobra.Command{
		Use:   "edit <round> [player...]",
		Short: "Correct a recorded round",
		Long: `Correct a round, referenced by number or id.

Players given after the round replace the finishing order. Without them the
order is kept. --adjust replaces the round's adjustments and
--clear-adjustments removes them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rounds []Round
			if err := client.Get(cmd.Context(), "/api/v1/rounds", &rounds); err != nil {
				return err
			}
			round, err := findRound(rounds, args[0])
			if err != nil {
				return err
			}
			players, err := fetchPlayers(cmd.Context())
			if err != nil {
				return err
			}

			draft := model.DraftFromRound(round.toModel())
			if len(args) > 1 {
				if err := setOrder(draft, players, args[1:]); err != nil {
					return err
				}
			}
			if clearAdjustments || len(adjust) > 0 {
				for _, a := range round.Adjustments {
					draft.ClearAdjustment(model.PlayerID(a.PlayerID))
				}
				if err := setAdjustments(draft, players, adjust); err != nil {
					return err
				}
			}

			path := "/api/v1/rounds/" + url.PathEscape(round.ID)
			if err := client.Post(cmd.Context(), path+"/edit", nil, nil); err != nil {
				return err
			}

			var result Round
			if err := client.Put(cmd.Context(), path, roundRequest(draft), &result); err != nil {
				// Leave the session out of edit mode
				_ = client.Delete(cmd.Context(), "/api/v1/rounds/edit")
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).WithPlayers(players).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&adjust, "adjust", nil, "Point adjustment as player=points[:reason] (repeatable)")
	cmd.Flags().BoolVar(&clearAdjustments, "clear-adjustments", false, "Remove all adjustments from the round")
	cmd.MarkFlagsMutuallyExclusive("adjust", "clear-adjustments")

	return cmd
}

func roundRequest(d *model.RoundDraft) map[string]any {
	rankings := make([]Ranking, 0, d.RankedCount())
	for _, rk := range d.Rankings() {
		rankings = append(rankings, Ranking{PlayerID: string(rk.PlayerID), Rank: rk.Rank})
	}
	adjustments := []Adjustment{}
	for _, a := range d.Adjustments() {
		adjustments = append(adjustments, Adjustment{PlayerID: string(a.PlayerID), Points: a.Points, Reason: a.Reason})
	}
	return map[string]any{
		"rankings":    rankings,
		"adjustments": adjustments,
	}
}

// setOrder ranks the referenced players 1..n in the order given
func setOrder(d *model.RoundDraft, players []Player, refs []string) error {
	listed := make(map[string]bool, len(refs))
	for i, ref := range refs {
		p, err := findPlayer(players, ref)
		if err != nil {
			return err
		}
		if listed[p.ID] {
			return fmt.Errorf("%s is listed more than once", p.Name)
		}
		listed[p.ID] = true
		d.SetRank(model.PlayerID(p.ID), i+1)
	}
	// A partial order on top of an existing round leaves stale ranks behind
	if d.HasDuplicateRanks() {
		return fmt.Errorf("list every player in the round to change the finishing order")
	}
	return nil
}

func setAdjustments(d *model.RoundDraft, players []Player, args []string) error {
	for _, arg := range args {
		a, err := parseAdjustment(players, arg)
		if err != nil {
			return err
		}
		d.SetAdjustment(model.PlayerID(a.PlayerID), a.Points, a.Reason)
	}
	return nil
}

// parseAdjustment reads player=points or player=points:reason
func parseAdjustment(players []Player, arg string) (Adjustment, error) {
	ref, value, ok := strings.Cut(arg, "=")
	if !ok {
		return Adjustment{}, fmt.Errorf("invalid adjustment %q, expected player=points[:reason]", arg)
	}

	pointsStr, reason, _ := strings.Cut(value, ":")
	points, err := strconv.Atoi(strings.TrimSpace(pointsStr))
	if err != nil {
		return Adjustment{}, fmt.Errorf("invalid points in adjustment %q", arg)
	}

	p, err := findPlayer(players, ref)
	if err != nil {
		return Adjustment{}, err
	}

	return Adjustment{PlayerID: p.ID, Points: points, Reason: strings.TrimSpace(reason)}, nil
}

// findRound matches a round number or id
func findRound(rounds []Round, ref string) (Round, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		for _, r := range rounds {
			if r.Number == n {
				return r, nil
			}
		}
	}
	for _, r := range rounds {
		if r.ID == ref {
			return r, nil
		}
	}
	return Round{}, fmt.Errorf("no round matches %q", ref)
}
