package cmd

import (
	"github.com/manifestkube/declctl/client"
	"github.com/spf13/cobra"
)

var (
	apiHost string
	apiPort string
)

var rootCmd = &cobra.Command{
	Use:   "declctl",
	Short: "declctl validates and applies declaration-set manifests",
}

func Execute() error {
	return rootCmd.Execute()
}

func getClient() *client.Client {
	return client.NewClient(client.ClientConfig{
		Host: apiHost,
		Port: apiPort,
	})
}

func init() {
	// Add global flags for API server configuration
	rootCmd.PersistentFlags().StringVar(&apiHost, "api-host", "localhost", "API server host")
	rootCmd.PersistentFlags().StringVar(&apiPort, "api-port", "8080", "API server port")
}
