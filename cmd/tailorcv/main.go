package main

import (
	"os"

	"github.com/spf13/cobra"

	"tailorcv/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tailorcv",
		Short: "tailorcv - resume tailoring API",
		Long:  `tailorcv serves the resume tailoring API: checkout, entitlement tokens, usage quotas, and the tailoring endpoint.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
