package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shoponline",
		Short: "Online shop backend",
		Long:  `shoponline serves the storefront API and ships the database migration and seeding tools it depends on.`,
		// Errors are already logged by the failing command.
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
