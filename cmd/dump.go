package cmd

import (
	"github.com/iksnae/sbh/internal"
	"github.com/iksnae/sbh/internal/export"
	"github.com/spf13/cobra"
)

var (
	dumpFormat string
	dumpUnique bool
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump STORE",
	Short: "Print every tab URL of the saved sessions",
	Long: `Print the tabs of every saved session of STORE.

Formats: txt (one URL per line), jsonl, json, yaml, md.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(dumpFormat)
		if err != nil {
			return err
		}

		entries, err := internal.LoadStoreTabs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if dumpUnique {
			before := len(entries)
			entries = internal.NewDeduplicator().Deduplicate(entries)
			internal.LogDebug("Dropped %d repeated URL(s)", before-len(entries))
		}

		return exporter.Export(entries, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "txt", "Output format (txt, jsonl, json, yaml, md)")
	dumpCmd.Flags().BoolVarP(&dumpUnique, "unique", "u", false, "Print each URL only once")
}
