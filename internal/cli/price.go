package cli

import (
	"github.com/spf13/cobra"
)

func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Show the current BTC price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Price(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
