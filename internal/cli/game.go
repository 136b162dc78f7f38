package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Session stage commands",
	}

	cmd.AddCommand(newGameProceedCmd())
	cmd.AddCommand(newGameResetCmd())
	cmd.AddCommand(newGameClearCmd())

	return cmd
}

func newGameProceedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proceed",
		Short: "Finish player setup and move on to scoring rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post(cmd.Context(), "/api/v1/session/proceed", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start a new game with the same players",
		Long: `Discard all rounds and scoring rules, keep the roster and return to
player setup. Asks for confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirmed(cmd, "reset",
				"Reset the game? All rounds and scores will be lost.", yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newGameClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all players, rounds and saved data",
		Long: `Remove every player, round and rule and delete the saved session.
Asks for confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirmed(cmd, "clear",
				"Clear all data? Players, rounds and rules will be deleted.", yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runConfirmed requests a destructive action, then confirms or cancels it
func runConfirmed(cmd *cobra.Command, action, question string, yes bool) error {
	if err := client.Post(cmd.Context(), "/api/v1/"+action, nil, nil); err != nil {
		return err
	}

	if !yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
		if err := client.Delete(cmd.Context(), "/api/v1/confirmation"); err != nil {
			return err
		}
		NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Cancelled")
		return nil
	}

	var result Confirmation
	if err := client.Post(cmd.Context(), "/api/v1/"+action+"/confirm", nil, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output, cmd.OutOrStdout())
	if cfg.Output == "json" {
		out.Print(result)
		return nil
	}
	if !result.Performed {
		out.PrintMessage("Nothing to " + action)
		return nil
	}
	out.Print(result.Session)
	return nil
}

func confirm(in io.Reader, prompt io.Writer, question string) bool {
	fmt.Fprintf(prompt, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
