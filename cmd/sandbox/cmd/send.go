/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <recipient|tx:HASH> <amount>",
	Short: "Transfer tokens from the credential's address",
	Long: `Transfer tokens from the credential's address. The amount may list several coins, e.g.
"100uatom,5stake". A recipient of the form tx:HASH sends to the sender of that transfer, which
returns faucet tokens.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := msgs.ParseAmounts(args[1])
		if err != nil {
			return buildError(err)
		}

		return runSubmission(cmd, "send", func(ctx context.Context, session *sandbox.Session) (*sandbox.Receipt, error) {
			return session.Send(ctx, args[0], amount...)
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
