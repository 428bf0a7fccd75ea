/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/colors"
	"github.com/RobertRaul/storefront-notify/internal/credentials"
)

type credentialStore interface {
	SetAccessToken(token string) error
	ClearAccessToken() error
	AccessToken() (string, error)
}

// NewAuthCmd creates the auth command group with explicit dependencies.
// open defers touching the system keyring until a subcommand runs.
func NewAuthCmd(open func() (credentialStore, error)) *cobra.Command {
	if open == nil {
		panic("NewAuthCmd: credential store opener cannot be nil")
	}

	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored access token",
		Long: `Manage the access token used to reach the storefront API.

USAGE:
    storefront-notify auth set-token [token]
    storefront-notify auth clear
    storefront-notify auth status

OPTIONS:
    -h, --help           Show this help`,
	}

	setTokenCmd := &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store the access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				// No argument: read from stdin so the token stays out
				// of shell history.
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					token = strings.TrimSpace(scanner.Text())
				}
			}
			store, err := open()
			if err != nil {
				return fmt.Errorf("auth set-token: %w", err)
			}
			if err := store.SetAccessToken(token); err != nil {
				return fmt.Errorf("auth set-token: %w", err)
			}
			colors.Success("Access token stored")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return fmt.Errorf("auth clear: %w", err)
			}
			if err := store.ClearAccessToken(); err != nil {
				return fmt.Errorf("auth clear: %w", err)
			}
			colors.Success("Access token removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return fmt.Errorf("auth status: %w", err)
			}
			token, err := store.AccessToken()
			if err != nil {
				return fmt.Errorf("auth status: %w", err)
			}
			if token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No access token stored.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Access token is stored.")
			}
			return nil
		},
	}

	authCmd.AddCommand(setTokenCmd, clearCmd, statusCmd)
	return authCmd
}

var authCmd = NewAuthCmd(func() (credentialStore, error) {
	return credentials.Open()
})

func init() {
	RootCmd.AddCommand(authCmd)
}
