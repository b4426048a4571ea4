/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	cmtos "github.com/cometbft/cometbft/libs/os"
	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/config"
	"github.com/albacanete/cosmos-sandbox/crypto"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

var generateOutput string

// generateCmd writes a fresh mnemonic to the credential file
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a 24 word mnemonic and write it to the credential file",
	Long: `Generate a 24 word mnemonic and write it, without a trailing newline, to the credential file.
An existing file is never overwritten. The derived address is printed so it can be funded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.Load(configFile)
		if err != nil {
			return &sandbox.StageError{Stage: sandbox.StageConfig, Err: err}
		}

		output := cfg.CredentialFile
		if generateOutput != "" {
			output = config.ExpandHomeDir(generateOutput)
		}

		mnemonic, err := crypto.GenerateMnemonic()
		if err != nil {
			return credentialError(err)
		}
		credential, err := crypto.NewCredentialFromMnemonic(
			mnemonic,
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

		if err := cmtos.EnsureDir(filepath.Dir(output), 0o700); err != nil {
			return credentialError(crypto.ErrMnemonic.Wrapf("create directory for %s: %s", output, err))
		}
		if err := crypto.WriteMnemonic(output, mnemonic); err != nil {
			return credentialError(err)
		}

		logger.Info().Str("credential_file", output).Msg("🔐 Wrote new mnemonic")
		fmt.Fprintln(cmd.ErrOrStderr(), address)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the mnemonic here instead of the configured credential file")
	rootCmd.AddCommand(generateCmd)
}
