package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [resource] [name]",
	Short: "Delete a declared resource",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		resourceType := args[0]
		name := args[1]

		if namespace == "" {
			namespace = "default"
		}
		c := getClient()

		switch resourceType {
		case "namespace", "ns":
			if err := c.DeleteNamespace(name); err != nil {
				fmt.Printf("❌ Failed to delete namespace: %v\n", err)
				return
			}
			fmt.Printf("✅ Namespace '%s' and everything in it deleted\n", name)
		case "service", "svc":
			if err := c.DeleteService(namespace, name); err != nil {
				fmt.Printf("❌ Failed to delete service: %v\n", err)
				return
			}
			fmt.Printf("✅ Service '%s' deleted successfully\n", name)
		case "deployment", "deploy":
			if err := c.DeleteDeployment(namespace, name); err != nil {
				fmt.Printf("❌ Failed to delete deployment: %v\n", err)
				return
			}
			fmt.Printf("✅ Deployment '%s' and its replica records deleted\n", name)
		default:
			fmt.Printf("❌ Unknown resource type: %s\n", resourceType)
		}
	},
}

func init() {
	deleteCmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace of the resource")
	rootCmd.AddCommand(deleteCmd)
}
