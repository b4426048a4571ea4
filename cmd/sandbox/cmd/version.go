/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Binary name
const (
	binaryName = "cosmos-sandbox"
	binaryIcon = "🧪"
)

// Version
var (
	SandboxVersion string
	GoVersion      string
	GitRevision    string
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the current version of the sandbox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s:\n", binaryIcon, binaryName)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Version: %s\n", SandboxVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Git Revision: %s\n", GitRevision)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Go Version: %s\n", GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
