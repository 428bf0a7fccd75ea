/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storefront-notify v%s\n", version.String())
		},
	}
}

var versionCmd = NewVersionCmd()

func init() {
	RootCmd.AddCommand(versionCmd)
}
