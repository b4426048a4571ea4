/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/msgs"
)

// txCmd fetches and decodes a transaction
var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Fetch a transaction and show its messages, fee and gas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := openSession(cmd, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		tx, decoded, err := session.Transaction(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printResult(out, &tx.Result)
		fmt.Fprintf(out, "Fee:       %s\n", decoded.Fee)
		fmt.Fprintf(out, "Gas limit: %d\n", decoded.GasLimit)
		if decoded.Memo != "" {
			fmt.Fprintf(out, "Memo:      %s\n", decoded.Memo)
		}
		for i, msg := range decoded.Messages {
			fmt.Fprintf(out, "Message %d: %s\n", i, msgs.Describe(msg))
		}
		return nil
	},
}

// txSenderCmd prints who sent a transfer, e.g. the faucet that funded the credential
var txSenderCmd = &cobra.Command{
	Use:   "tx-sender <hash>",
	Short: "Print the sender of the transfer carried by a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := openSession(cmd, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		sender, err := session.TransferSender(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sender)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(txSenderCmd)
}
