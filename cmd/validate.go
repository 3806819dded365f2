package cmd

import (
	"fmt"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var validateSchema bool

// validateCmd groups the validation subcommands
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a store or a backup",
}

var validateStoreCmd = &cobra.Command{
	Use:   "store PATH",
	Short: "Run the SQLite integrity check on a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateStore(cmd.Context(), args[0], validateSchema); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("%s is a valid store", args[0]))
		return nil
	},
}

var validateBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Parse a JSON backup, compressed or not",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := internal.ValidateBackupFile(args[0])
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("%s is a valid backup with %d session(s)", args[0], len(backup.Sessions)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateStoreCmd, validateBackupCmd)
	validateStoreCmd.Flags().BoolVar(&validateSchema, "schema", false, "Also check tables and columns")
}
