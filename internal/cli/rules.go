package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Scoring rule commands",
	}

	cmd.AddCommand(newRulesShowCmd())
	cmd.AddCommand(newRulesDefaultsCmd())
	cmd.AddCommand(newRulesSetCmd())

	return cmd
}

func newRulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved scoring rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rules []ScoringRule

			if err := client.Get(cmd.Context(), "/api/v1/rules", &rules); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(rules)
			return nil
		},
	}
}

func newRulesDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show the suggested rules for the current roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rules []ScoringRule

			if err := client.Get(cmd.Context(), "/api/v1/rules/defaults", &rules); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(rules)
			return nil
		},
	}
}

func newRulesSetCmd() *cobra.Command {
	var (
		points      []int
		useDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the scoring rules and start the game",
		Long: `Save points per finishing position and move on to play.

--points lists the points for 1st, 2nd, 3rd and so on:

  scoretracker rules set --points 4,2,-2

--defaults saves the suggested rules for the roster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := buildRules(cmd.Context(), points, useDefaults)
			if err != nil {
				return err
			}

			var result Session
			if err := client.Put(cmd.Context(), "/api/v1/rules", map[string]any{"rules": rules}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if cfg.Output == "json" {
				out.Print(result)
				return nil
			}
			out.PrintMessage("Scoring rules saved, game started")
			out.Print(result.Rules)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&points, "points", nil, "Points for each finishing position, best first")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the suggested rules")
	cmd.MarkFlagsMutuallyExclusive("points", "defaults")

	return cmd
}

func buildRules(ctx context.Context, points []int, useDefaults bool) ([]ScoringRule, error) {
	if useDefaults {
		var rules []ScoringRule
		if err := client.Get(ctx, "/api/v1/rules/defaults", &rules); err != nil {
			return nil, err
		}
		return rules, nil
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("either --points or --defaults is required")
	}
	return rulesFromPoints(points), nil
}

func rulesFromPoints(points []int) []ScoringRule {
	rules := make([]ScoringRule, len(points))
	for i, p := range points {
		rules[i] = ScoringRule{Rank: i + 1, Points: p}
	}
	return rules
}
