/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albacanete/cosmos-sandbox/health"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

type submission func(ctx context.Context, session *sandbox.Session) (*sandbox.Receipt, error)

// runSubmission opens a session, runs submit and reports the outcome to the health check.
// Health pings never fail the command.
func runSubmission(cmd *cobra.Command, operation string, submit submission) error {
	ctx := cmd.Context()
	operationLogger := logger.ApplyPrefix(fmt.Sprintf(" [%s]", operation))

	session, cfg, err := openSession(cmd, operationLogger)
	if err != nil {
		return err
	}
	defer session.Close()

	healthClient := health.NewHealthCheckClient(operation, cfg.HealthChecksBaseUrl, cfg.HealthChecksUUID, operationLogger)
	if err := healthClient.Start(ctx, fmt.Sprintf("%s from %s on %s", operation, session.Address(), session.ChainID())); err != nil {
		operationLogger.Warn().Err(err).Msg("Failed to send start ping")
	}

	receipt, err := submit(ctx, session)
	printReceipt(cmd.OutOrStdout(), receipt)
	if err != nil {
		if pingErr := healthClient.Failed(ctx, err.Error()); pingErr != nil {
			operationLogger.Warn().Err(pingErr).Msg("Failed to send failure ping")
		}
		return err
	}

	operationLogger.Info().Str("tx_hash", receipt.Result.Hash).Msg("✅ Submitted")
	if err := healthClient.Success(ctx, fmt.Sprintf("%s included as %s", operation, receipt.Result.Hash)); err != nil {
		operationLogger.Warn().Err(err).Msg("Failed to send success ping")
	}
	return nil
}
