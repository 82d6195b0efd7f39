package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ErrNothingToWatch is returned when the player has no active guess
var ErrNothingToWatch = errors.New("no active guess to watch")

func newWatchCmd() *cobra.Command {
	var interval, timeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll status until the active guess is scored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			result, err := watchStatus(ctx, client, playerID, interval, func(s StatusResult) {
				if cfg.Output == "text" && s.ActiveGuess != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Waiting: %s guess from %s, score %d\n",
						s.ActiveGuess.Direction, s.ActiveGuess.InitialPrice, s.Score)
				}
			})
			if err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Give up after this long")

	return cmd
}

// watchStatus polls until a status reports a scored guess.
// onPending is called for every poll that leaves the guess active.
func watchStatus(ctx context.Context, c *Client, playerID string, interval time.Duration, onPending func(StatusResult)) (StatusResult, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.Status(ctx, playerID)
		if err != nil {
			if ctx.Err() != nil {
				return StatusResult{}, fmt.Errorf("timed out waiting for resolution: %w", ctx.Err())
			}
			return StatusResult{}, err
		}
		if status.Resolved() {
			return status, nil
		}
		if status.ActiveGuess == nil {
			return status, ErrNothingToWatch
		}
		onPending(status)

		select {
		case <-ctx.Done():
			return StatusResult{}, fmt.Errorf("timed out waiting for resolution: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
