package main

import (
	"fmt"

	"echeck-gateway/internal/check"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func wordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "words <amount>",
		Short:   "Spell out an amount as the legal line of a check",
		Example: "  echeckctl words 1250.75",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			words, err := check.AmountToWords(amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), words)
			return nil
		},
	}
}
