/*
Copyright © 2023 Alba Canete <albacanete>
*/
package cmd

import (
	"fmt"
	"io"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/albacanete/cosmos-sandbox/rpc"
	"github.com/albacanete/cosmos-sandbox/sandbox"
)

func printBalances(out io.Writer, address string, balances sdk.Coins) {
	if balances.Empty() {
		fmt.Fprintf(out, "%s: no balances\n", address)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", address, balances)
}

func printResult(out io.Writer, result *rpc.TxResult) {
	fmt.Fprintf(out, "Hash:      %s\n", result.Hash)
	if result.Height > 0 {
		fmt.Fprintf(out, "Height:    %d\n", result.Height)
	}
	fmt.Fprintf(out, "Code:      %d\n", result.Code)
	if !result.Succeeded() {
		fmt.Fprintf(out, "Codespace: %s\n", result.Codespace)
		fmt.Fprintf(out, "Log:       %s\n", result.RawLog)
	}
	if result.GasUsed > 0 {
		fmt.Fprintf(out, "Gas:       %d / %d\n", result.GasUsed, result.GasWanted)
	}
	if chainInfo != nil {
		if page, ok := chainInfo.TxPage(result.Hash); ok {
			fmt.Fprintf(out, "Explorer:  %s\n", page)
		}
	}
}

func printReceipt(out io.Writer, receipt *sandbox.Receipt) {
	if receipt == nil || receipt.Result == nil {
		return
	}

	printResult(out, receipt.Result)
	for _, report := range receipt.Balances {
		fmt.Fprintf(out, "%s: %s -> %s\n", report.Address, report.Before, report.After)
	}
}
