package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk-service",
	Short: "IT helpdesk backend: ticket CRUD/search/stats API, chat assistant proxies, auth via identity provider",
	RunE:  runAPI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(seedCmd)
}
