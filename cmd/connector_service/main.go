package main

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {

	var specFile string

	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use: "connector_service",
	}

	var apiServerCmd = &cobra.Command{
		Use:   "api_server",
		Short: "Connector service REST and gRPC API server",
		Run: func(cmd *cobra.Command, args []string) {
			startConnectorServiceApiServer(specFile)
		},
	}

	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed the connector definition catalog and the default owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedDatabase(cmd.Context())
		},
	}

	rootCmd.AddCommand(apiServerCmd)
	apiServerCmd.Flags().StringVarP(&specFile, "spec-file", "s", "", "OpenAPI document to serve instead of the one compiled into the binary")

	rootCmd.AddCommand(seedCmd)

	return rootCmd
}

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
