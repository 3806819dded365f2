package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statsFormat string

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats STORE",
	Short: "Summarize the contents of a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := internal.CollectStats(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeStats(cmd.OutOrStdout(), stats, statsFormat)
	},
}

func writeStats(w io.Writer, stats *internal.Stats, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(stats)
	case "text", "txt":
		return internal.RenderFields(w, []internal.Field{
			{Label: "Path", Value: stats.Path},
			{Label: "Installation ID", Value: orDash(stats.InstallationID)},
			{Label: "Installation Date", Value: formatDate(stats.Installed)},
			{Label: "Sessions", Value: strconv.Itoa(stats.Sessions)},
			{Label: "Previous Sessions", Value: strconv.Itoa(stats.Previous)},
			{Label: "Windows", Value: strconv.Itoa(stats.Windows)},
			{Label: "Tabs", Value: strconv.Itoa(stats.Tabs)},
			{Label: "Duplicate URLs", Value: strconv.Itoa(stats.DuplicateURLs)},
			{Label: "Oldest Session", Value: formatDate(stats.Oldest)},
			{Label: "Newest Session", Value: formatDate(stats.Newest)},
		})
	}
	return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format (text, json, yaml)")
}
