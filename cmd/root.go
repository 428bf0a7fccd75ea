/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/logging"
	"github.com/RobertRaul/storefront-notify/internal/version"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "storefront-notify",
	Short: "Live order and stock notifications for your storefront, in the terminal.",
	Long:  `Live order and stock notifications for your storefront, in the terminal.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	defer logging.ShutdownGlobal()
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.SilenceUsage = true

	RootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Logging failures never block a command; the noop logger takes
		// over when init fails.
		_ = logging.InitGlobal()
	}

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	})
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"panel",
		"follow",
		"list",
		"status",
		"mark-read",
		"mark-all-read",
		"dismiss",
		"cleanup",
		"auth",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-20s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`storefront-notify v%s

Live order and stock notifications for your storefront, in the terminal.

USAGE:
    storefront-notify [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Print(helpText)
}
