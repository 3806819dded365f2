package cmd

import (
	"fmt"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var (
	importPath   string
	importAtomic bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import --path STORE FILE...",
	Short: "Import saved sessions from backups or other stores",
	Long: `Import the saved sessions of JSON backups (plain, .gz or .zst) and of other
Session Buddy stores into STORE.

Current sessions are discarded; previous sessions and unknown types are
skipped. A malformed session aborts the import before any row of its file is
written. Use --atomic to roll back everything on failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var report *internal.ImportReport
		err := internal.ShowProgress(cmd.Context(), fmt.Sprintf("Importing %d file(s)", len(args)), func() error {
			var err error
			report, err = internal.ImportFiles(cmd.Context(), importPath, args, internal.ImportOptions{Atomic: importAtomic})
			return err
		})
		if report != nil {
			internal.LogInfo("Imported %d session(s) from %d file(s), %d discarded, %d skipped",
				report.Inserted, report.Files, report.Discarded, report.Skipped)
		}
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Imported %d session(s) into %s", report.Inserted, importPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importPath, "path", "p", "", "Store to import into")
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "Run the whole import in one transaction")
	_ = importCmd.MarkFlagRequired("path")
}
