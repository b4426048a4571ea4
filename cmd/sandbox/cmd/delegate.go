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

// delegateCmd represents the delegate command
var delegateCmd = &cobra.Command{
	Use:   "delegate <validator|tx:HASH> <amount>",
	Short: "Delegate tokens to a validator",
	Long: `Delegate tokens from the credential's address to a validator. A validator of the form
tx:HASH delegates to the operator address of that transfer's sender.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := msgs.ParseAmount(args[1])
		if err != nil {
			return buildError(err)
		}

		return runSubmission(cmd, "delegate", func(ctx context.Context, session *sandbox.Session) (*sandbox.Receipt, error) {
			return session.Delegate(ctx, args[0], amount)
		})
	},
}

func init() {
	rootCmd.AddCommand(delegateCmd)
}
