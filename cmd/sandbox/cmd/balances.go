/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// balancesCmd represents the balances command
var balancesCmd = &cobra.Command{
	Use:   "balances [address]",
	Short: "Show the balances of an address, by default the credential's own",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := openSession(cmd, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		address := session.Address()
		if len(args) == 1 {
			address = args[0]
		}

		balances, err := session.Balances(cmd.Context(), address)
		if err != nil {
			return err
		}
		printBalances(cmd.OutOrStdout(), address, balances)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}
