package cmd

import (
	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var (
	backupOutput          string
	backupIncludePrevious bool
)

// Injection points for tests.
var newHost = func() internal.HostEnvironment { return internal.NewSystemHost(cfg.Language) }

var gids internal.GIDGenerator = internal.RandomGIDs{}

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup STORE",
	Short: "Write a Session Buddy JSON backup of a store",
	Long: `Write the saved sessions of STORE as a Session Buddy JSON backup.

Without -o the backup is printed on stdout as a single line. When -o names a
directory the file is called session_buddy_<store mtime>.json. A .gz or .zst
suffix compresses the output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := args[0]
		opts := internal.AssembleOptions{IncludePrevious: backupIncludePrevious}

		if backupOutput == "" {
			return internal.BackupStore(cmd.Context(), store, cmd.OutOrStdout(), newHost(), gids, now, opts)
		}

		target, err := internal.ResolveBackupTarget(store, backupOutput)
		if err != nil {
			return err
		}
		if err := internal.SaveBackup(cmd.Context(), store, target, newHost(), gids, now, opts); err != nil {
			return err
		}
		internal.PrintSuccess("Wrote " + target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Output file or directory (default: stdout)")
	backupCmd.Flags().BoolVar(&backupIncludePrevious, "include-previous", false, "Also export automatically recorded previous sessions")
}
