package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boardly",
		Short: "Boardly account service",
		Long: `Boardly serves sign-in, SSO and two-factor verification for boardly accounts.
Configuration is read from the environment and optional .env files.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSlice("env-file", nil, "Load variables from these .env files before reading the environment")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newKeygenCmd())
	return root
}
