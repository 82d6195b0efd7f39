package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "guess <up|down>",
		Short:     "Guess whether the BTC price will go up or down",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			direction := strings.ToLower(args[0])
			if direction != "up" && direction != "down" {
				return fmt.Errorf("guess must be 'up' or 'down', got %q", args[0])
			}

			result, err := client.SubmitGuess(cmd.Context(), playerID, direction)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
