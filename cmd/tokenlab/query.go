package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"injective-token-lab/internal/walletscan"
)

var scanCmd = &cobra.Command{
	Use:   "scan <address>",
	Short: "Print the wallet activity report of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		c, err := newCore(cfg)
		if err != nil {
			return err
		}
		report, err := c.wallets.Analyze(ctx, args[0], walletscan.ScanOptions{MaxTransactions: cfg.ScanMaxTransactions})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var holdersCmd = &cobra.Command{
	Use:   "holders <native|-> <contract|->",
	Short: "Print the merged holder table of a token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		c, err := newCore(cfg)
		if err != nil {
			return err
		}
		table, err := c.holders.Holders(ctx, positional(args[0]), positional(args[1]))
		if err != nil {
			return err
		}
		return printJSON(table)
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Print the supply report of the tracked tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		c, err := newCore(cfg)
		if err != nil {
			return err
		}
		report, err := c.supply.Analyze(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

// positional maps "-" and "none" to an absent value.
func positional(s string) string {
	if s == "-" || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
