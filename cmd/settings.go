package cmd

import (
	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings STORE",
	Short: "Print the user settings of a store as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := internal.OpenStore(ctx, args[0], internal.OpenReadOnly)
		if err != nil {
			return err
		}
		defer db.Close()

		settings, err := internal.LoadUserSettings(ctx, db)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer func() { _ = enc.Close() }()
		return enc.Encode(settings)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}
