package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifestkube/declctl/manifest"
	"github.com/spf13/cobra"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:          "validate",
	Short:        "Validate a declaration-set manifest without applying it",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := manifest.ParseFile(validateFile)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAMESPACE\tNAME")
		for _, record := range set.Records() {
			ns := record.GetNamespace()
			if ns == "" {
				ns = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", record.GetKind(), ns, record.GetName())
		}
		w.Flush()

		issues := set.Validate()
		for _, issue := range issues {
			switch issue.Severity {
			case manifest.SeverityError:
				fmt.Printf("❌ %s\n", issue)
			default:
				fmt.Printf("⚠️ %s\n", issue)
			}
		}

		if manifest.HasErrors(issues) {
			return fmt.Errorf("manifest has validation errors")
		}
		fmt.Printf("✅ %d record(s) validated\n", set.Len())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "filename", "f", "", "YAML manifest to validate")
	validateCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(validateCmd)
}
