// Command echeckctl renders check artefacts offline: the legal amount line,
// the MICR line and the full instrument view.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "echeckctl",
		Short:         "Inspect e-check amount lines, MICR lines and instruments",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(wordsCmd())
	rootCmd.AddCommand(micrCmd())
	rootCmd.AddCommand(renderCmd())
	return rootCmd
}
