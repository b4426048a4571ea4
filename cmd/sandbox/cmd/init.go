/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info().Str("config_file", configFile).Msg("Initializing configuration")

		if err := config.Initialize(configFile); err != nil {
			return err
		}

		logger.Info().Str("config_file", configFile).Msg("Wrote configuration, edit it before sending transactions")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
