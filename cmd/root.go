package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     = internal.DefaultConfig()
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sbh",
	Short: "Back up, restore and inspect Session Buddy stores",
	Long: `sbh works with the SQLite store of the Session Buddy browser extension.

It converts saved sessions to the extension's JSON backup format and back,
validates stores and backups, and locates stores under browser profiles.

Quick Start:
  sbh search                             # Find Session Buddy stores
  sbh backup STORE -o ~/backups          # Write a JSON backup
  sbh new restored.db --seed             # Create an empty store
  sbh import --path restored.db b.json   # Import saved sessions`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		cfg.Apply()
		if verbose {
			internal.SetVerbose(true)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitCode(err))
	}
}

// Exit statuses, following sysexits(3) where one fits.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitValidationFailed = 2
	ExitDataErr          = 65
	ExitNoInput          = 66
	ExitUnavailable      = 69
	ExitCantCreate       = 73
	ExitIOErr            = 74
	ExitInterrupted      = 130
)

// ExitCode maps an error to the process exit status of its kind.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch internal.KindOf(err) {
	case internal.ErrIntegrityCheckFailed:
		return ExitValidationFailed
	case internal.ErrMalformedRecord, internal.ErrMissingField,
		internal.ErrUnknownSessionType, internal.ErrTypeMismatch:
		return ExitDataErr
	case internal.ErrSettingNotFound:
		return ExitNoInput
	case internal.ErrUnsupportedPlatform:
		return ExitUnavailable
	case internal.ErrStoreAlreadyExists:
		return ExitCantCreate
	case internal.ErrIoFailure:
		return ExitIOErr
	}
	return ExitFailure
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
