package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the path of a node executable, installing one if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := targetPlatform()
		if err != nil {
			return err
		}
		r, err := newResolver()
		if err != nil {
			return err
		}

		path, err := r.Resolve(cmd.Context(), key)
		if err != nil {
			return err
		}
		saveState(r)

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
