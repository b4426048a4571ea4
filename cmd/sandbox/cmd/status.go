/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd checks the connection to the node
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the chain id and height reported by the node",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := openSession(cmd, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		status, err := session.Status(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Node:     %s\n", status.Node)
		fmt.Fprintf(out, "Chain id: %s\n", status.ChainID)
		fmt.Fprintf(out, "Height:   %d\n", status.Height)
		fmt.Fprintf(out, "Address:  %s\n", status.Address)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
