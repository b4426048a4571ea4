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

var (
	proposalTitle       string
	proposalDescription string
	proposalDeposit     string
)

// proposeCmd submits a text governance proposal
var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Submit a text governance proposal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deposit, err := msgs.ParseAmounts(proposalDeposit)
		if err != nil {
			return buildError(err)
		}

		return runSubmission(cmd, "propose", func(ctx context.Context, session *sandbox.Session) (*sandbox.Receipt, error) {
			return session.Propose(ctx, proposalTitle, proposalDescription, deposit...)
		})
	},
}

func init() {
	proposeCmd.Flags().StringVar(&proposalTitle, "title", "", "Proposal title")
	proposeCmd.Flags().StringVar(&proposalDescription, "description", "", "Proposal description")
	proposeCmd.Flags().StringVar(&proposalDeposit, "deposit", "", "Initial deposit, e.g. 10000000uatom")
	_ = proposeCmd.MarkFlagRequired("title")
	_ = proposeCmd.MarkFlagRequired("description")

	rootCmd.AddCommand(proposeCmd)
}
