package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player roster commands",
		Long: `Manage the roster during player setup.

Players can be referenced by id or by name (case-insensitive).`,
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerRenameCmd())
	cmd.AddCommand(newPlayerRemoveCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List players with their scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := fetchPlayers(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(players)
			return nil
		},
	}
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			req := map[string]string{"name": args[0]}
			if err := client.Post(cmd.Context(), "/api/v1/players", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayerRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <player> <new-name>",
		Short: "Rename a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := resolvePlayer(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var result Player
			req := map[string]string{"name": args[1]}
			if err := client.Patch(cmd.Context(), "/api/v1/players/"+url.PathEscape(player.ID), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <player>",
		Aliases: []string{"rm"},
		Short:   "Remove a player from the roster",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := resolvePlayer(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(cmd.Context(), "/api/v1/players/"+url.PathEscape(player.ID)); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Removed %s", player.Name))
			return nil
		},
	}
}

func fetchPlayers(ctx context.Context) ([]Player, error) {
	var players []Player
	if err := client.Get(ctx, "/api/v1/players", &players); err != nil {
		return nil, err
	}
	return players, nil
}

func resolvePlayer(ctx context.Context, ref string) (Player, error) {
	players, err := fetchPlayers(ctx)
	if err != nil {
		return Player{}, err
	}
	return findPlayer(players, ref)
}

// findPlayer matches an exact id first, then a case-insensitive name
func findPlayer(players []Player, ref string) (Player, error) {
	for _, p := range players {
		if p.ID == ref {
			return p, nil
		}
	}

	var matches []Player
	for _, p := range players {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return Player{}, fmt.Errorf("no player matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return Player{}, fmt.Errorf("%d players are named %q, use an id instead", len(matches), ref)
	}
}
