package cmd

import (
	"fmt"
	"os"

	"github.com/manifestkube/declctl/manifest"
	"github.com/spf13/cobra"
)

var (
	applyFile      string
	applyNamespace string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a declaration-set manifest through the API server",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(applyFile)
		if err != nil {
			fmt.Printf("❌ Error reading file: %v\n", err)
			return
		}

		// Validate locally first so schema errors never reach the server
		set, err := manifest.ParseBytes(data)
		if err != nil {
			fmt.Printf("❌ Error parsing manifest: %v\n", err)
			return
		}
		set.DefaultNamespace(applyNamespace)
		issues := set.Validate()
		for _, issue := range issues {
			if issue.Severity == manifest.SeverityWarning {
				fmt.Printf("⚠️ %s\n", issue)
			}
		}
		if manifest.HasErrors(issues) {
			for _, issue := range issues {
				if issue.Severity == manifest.SeverityError {
					fmt.Printf("❌ %s\n", issue)
				}
			}
			return
		}

		// Send the parsed set back out so namespace defaulting sticks
		payload, err := set.Marshal()
		if err != nil {
			fmt.Printf("❌ Error serializing manifest: %v\n", err)
			return
		}

		applied, err := getClient().ApplyManifest(payload)
		if err != nil {
			fmt.Printf("❌ Error applying manifest: %v\n", err)
			return
		}
		for _, result := range applied.Results {
			name := result.Name
			if result.Namespace != "" {
				name = result.Namespace + "/" + result.Name
			}
			if result.Message != "" {
				fmt.Printf("✅ %s '%s' created (%s)\n", result.Kind, name, result.Message)
			} else {
				fmt.Printf("✅ %s '%s' created\n", result.Kind, name)
			}
		}
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "filename", "f", "", "YAML manifest to apply")
	applyCmd.Flags().StringVarP(&applyNamespace, "namespace", "n", "", "Namespace for records that do not declare one")
	applyCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(applyCmd)
}
