package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"doiproxy/src/internal/doi"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <doi>...",
		Short: "Strip URL and resolver prefixes from DOIs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				fmt.Fprintln(cmd.OutOrStdout(), doi.Normalize(a))
			}
			return nil
		},
	}
}
