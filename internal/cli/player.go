package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage the local player id",
	}

	cmd.AddCommand(newPlayerNewCmd())
	cmd.AddCommand(newPlayerUseCmd())
	cmd.AddCommand(newPlayerShowCmd())

	return cmd
}

func newPlayerNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Generate a new player id and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.NewString()
			if err := cfg.SavePlayer(id); err != nil {
				return fmt.Errorf("failed to save player: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(PlayerInfo{PlayerID: id, File: cfg.PlayerFile})
			return nil
		},
	}
}

func newPlayerUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <player-id>",
		Short: "Save an existing player id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("player id must not be empty")
			}
			if err := cfg.SavePlayer(id); err != nil {
				return fmt.Errorf("failed to save player: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(PlayerInfo{PlayerID: id, File: cfg.PlayerFile})
			return nil
		},
	}
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured player id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(PlayerInfo{PlayerID: id})
			return nil
		},
	}
}
