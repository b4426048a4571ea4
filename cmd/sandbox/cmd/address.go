/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/crypto"
)

// addressCmd prints the address of the configured credential without touching the network
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address controlled by the credential file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration(cmd.Context())
		if err != nil {
			return err
		}

		credential, err := crypto.LoadCredential(
			cfg.CredentialFile,
			crypto.WithPrefix(cfg.AddressPrefix),
			crypto.WithHDPath(cfg.CoinType, cfg.HDAccount, cfg.HDIndex),
		)
		if err != nil {
			return credentialError(err)
		}
		address, err := crypto.ResolveAddress(credential, 0)
		if err != nil {
			return credentialError(err)
		}

		logger.Debug().Str("source", string(credential.Source())).Str("hd_path", credential.HDPath()).Msg("Loaded credential")
		fmt.Fprintln(cmd.OutOrStdout(), address)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
