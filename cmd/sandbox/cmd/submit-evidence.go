/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

var (
	evidenceHeight           int64
	evidencePower            int64
	evidenceConsensusAddress string
	evidenceTime             string
)

// submitEvidenceCmd reports a double sign
var submitEvidenceCmd = &cobra.Command{
	Use:   "submit-evidence",
	Short: "Submit equivocation evidence against a validator consensus address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if evidenceTime != "" {
			parsed, err := time.Parse(time.RFC3339, evidenceTime)
			if err != nil {
				return buildError(msgs.ErrInvalidMessage.Wrapf("evidence time %q is not RFC3339", evidenceTime))
			}
			at = parsed
		}
		evidence := msgs.NewEquivocation(evidenceHeight, evidencePower, evidenceConsensusAddress, at)

		return runSubmission(cmd, "submit-evidence", func(ctx context.Context, session *sandbox.Session) (*sandbox.Receipt, error) {
			return session.SubmitEvidence(ctx, evidence)
		})
	},
}

func init() {
	submitEvidenceCmd.Flags().Int64Var(&evidenceHeight, "height", 0, "Height of the double sign")
	submitEvidenceCmd.Flags().Int64Var(&evidencePower, "power", 0, "Voting power of the validator at that height")
	submitEvidenceCmd.Flags().StringVar(&evidenceConsensusAddress, "consensus-address", "", "Validator consensus address, e.g. cosmosvalcons1...")
	submitEvidenceCmd.Flags().StringVar(&evidenceTime, "time", "", "Time of the double sign in RFC3339, defaults to now")
	_ = submitEvidenceCmd.MarkFlagRequired("height")
	_ = submitEvidenceCmd.MarkFlagRequired("consensus-address")

	rootCmd.AddCommand(submitEvidenceCmd)
}
