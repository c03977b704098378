package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the authscreen CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authscreen",
		Short: "Casa Comfort login, registration and password recovery screen",
		Long: `authscreen serves the storefront's authentication screen: login and
registration tabs plus a password recovery form, backed either by the
storefront API or by a local sqlite account store.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(cmd.Root().Version)
			return nil
		},
	}
}
