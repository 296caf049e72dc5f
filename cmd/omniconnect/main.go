package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/miasolution2024/omniconnect/internal/interfaces/cli/migrate"
	"github.com/miasolution2024/omniconnect/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "omniconnect",
		Short: "OmniConnect - social channel linking service",
		Long:  `OmniConnect links Facebook pages, Instagram accounts and Zalo official accounts to the messaging dashboard, and relays their webhook events downstream.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
