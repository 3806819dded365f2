package cmd

import (
	"fmt"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var searchDepth int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [BASE]",
	Short: "Find Session Buddy stores under browser profiles",
	Long: `Walk BASE, or the platform's browser profile directory when omitted, and
print every Session Buddy store file found, one path per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := internal.DetectSearchRoot()
		if len(args) == 1 {
			root = args[0]
		}
		opts := internal.SearchOptions{MaxDepth: cfg.SearchDepth, FollowLinks: cfg.FollowLinks}
		if cmd.Flags().Changed("depth") {
			opts.MaxDepth = searchDepth
		}

		var stores []string
		err := internal.ShowProgress(cmd.Context(), "Searching "+root, func() error {
			var err error
			stores, err = internal.FindStores(cmd.Context(), root, opts)
			return err
		})
		if err != nil {
			return err
		}

		for _, store := range stores {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), store); err != nil {
				return err
			}
		}
		if len(stores) == 0 {
			internal.PrintWarning("No Session Buddy store found under " + root)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchDepth, "depth", "d", 8, "Maximum directory depth (default from SBH_SEARCH_DEPTH)")
}
