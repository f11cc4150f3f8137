package main

import (
	"fmt"

	"echeck-gateway/internal/check"

	"github.com/spf13/cobra"
)

func micrCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "micr <check-number> <routing-number> <account-number>",
		Short:   "Format the MICR line printed along the bottom of a check",
		Example: "  echeckctl micr 1001 021000021 123456789",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict && !check.ValidRoutingNumber(args[1]) {
				return fmt.Errorf("routing number %q fails the ABA checksum", args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), check.MICRLine(args[0], args[1], args[2]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Reject routing numbers failing the ABA checksum")
	return cmd
}
