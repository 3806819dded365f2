package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/sbh/internal"
	"github.com/spf13/cobra"
)

var (
	newForce bool
	newSeed  bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new PATH",
	Short: "Create an empty Session Buddy store",
	Long: `Create a new store file with the Session Buddy schema.

With --seed an installation id and timestamp are written so the store can be
backed up right away.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		if err := internal.CreateStore(ctx, path, newForce); err != nil {
			return err
		}

		if newSeed {
			db, err := internal.OpenStore(ctx, path, internal.OpenReadWrite)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := internal.SeedSettings(ctx, db, now())
			if err != nil {
				return err
			}
			internal.LogInfo("Seeded installation id %s", id)
		}

		internal.PrintSuccess(fmt.Sprintf("Created store %s", path))
		return nil
	},
}

// now is replaced in tests.
var now = time.Now

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Create the schema even if the file exists")
	newCmd.Flags().BoolVar(&newSeed, "seed", false, "Write a fresh installation id and timestamp")
}
