/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/config"
	"github.com/albacanete/cosmos-sandbox/log"
	"github.com/albacanete/cosmos-sandbox/registry"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

var (
	rawLogLevel string
	logger      *log.Logger

	configFile     string
	nodeFlag       string
	transportFlag  string
	chainIDFlag    string
	credentialFlag string

	// Set when the configuration names a chain registry entry.
	chainInfo *registry.ChainInfo
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Sandbox sends test transactions to Cosmos SDK chains.",
	Long: `Sandbox loads a key from a mnemonic or private key file, queries a Cosmos SDK chain and
signs and broadcasts transfers, delegations, governance proposals and evidence.

Every command reads its settings from the configuration file. Run 'sandbox init' to write one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Get a logger
		logger = log.NewLogger(rawLogLevel)

		configFile = config.ExpandHomeDir(configFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Msg("❌ Command failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath(), "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&rawLogLevel, "log-level", "l", "info", "Logging level")
	rootCmd.PersistentFlags().StringVar(&nodeFlag, "node", "", "Override the node endpoint")
	rootCmd.PersistentFlags().StringVar(&transportFlag, "transport", "", "Override the transport (rpc or grpc)")
	rootCmd.PersistentFlags().StringVar(&chainIDFlag, "chain-id", "", "Override the expected chain id")
	rootCmd.PersistentFlags().StringVar(&credentialFlag, "credential", "", "Override the credential file")
}

// loadConfiguration reads the configuration file, applies flags and the chain registry, then
// validates the result. Errors are tagged with the config stage, registry lookups with connect.
func loadConfiguration(ctx context.Context) (*config.Configuration, error) {
	cfg, found, err := config.Load(configFile)
	if err != nil {
		return nil, &sandbox.StageError{Stage: sandbox.StageConfig, Err: err}
	}
	if !found {
		logger.Debug().Str("config_file", configFile).Msg("No configuration file, using defaults")
	}

	if nodeFlag != "" {
		cfg.Node = nodeFlag
	}
	if transportFlag != "" {
		cfg.Transport = transportFlag
	}
	if chainIDFlag != "" {
		cfg.ChainID = chainIDFlag
	}
	if credentialFlag != "" {
		cfg.CredentialFile = config.ExpandHomeDir(credentialFlag)
	}

	if cfg.ChainName != "" {
		registryClient := registry.NewRegistryClient(cfg.ChainRegistryBaseUrl, logger)
		info, err := registryClient.GetChainInfo(ctx, cfg.ChainName)
		if err != nil {
			return nil, &sandbox.StageError{Stage: sandbox.StageConnect, Err: err}
		}
		cfg.ApplyChainInfo(info)
		chainInfo = info
	}

	cfg.Memo = cfg.VersionedMemo(SandboxVersion)
	if err := cfg.Validate(); err != nil {
		return nil, &sandbox.StageError{Stage: sandbox.StageConfig, Err: err}
	}
	return cfg, nil
}

// buildError tags argument parsing failures with the build stage.
func buildError(err error) error {
	return &sandbox.StageError{Stage: sandbox.StageBuild, Err: err}
}

func credentialError(err error) error {
	return &sandbox.StageError{Stage: sandbox.StageCredential, Err: err}
}

// openSession loads the configuration and starts a session against the configured node.
func openSession(cmd *cobra.Command, sessionLogger *log.Logger) (*sandbox.Session, *config.Configuration, error) {
	cfg, err := loadConfiguration(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	session, err := sandbox.NewSession(cmd.Context(), cfg, sessionLogger)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}
