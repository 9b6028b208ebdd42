package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yii2-navigation/yii2-ls/internal/config"
	"github.com/yii2-navigation/yii2-ls/internal/server"
)

var commandJSON bool

func init() {
	commandCmd.Flags().BoolVar(&commandJSON, "json", false, "Print the command as JSON")
	rootCmd.AddCommand(commandCmd)
}

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Print the command that starts the language server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := languageServerCommand(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if commandJSON {
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling command: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, strings.Join(append([]string{c.Path}, c.Args...), " "))
		return nil
	},
}

// languageServerCommand resolves node and writes the server script into the
// install directory.
func languageServerCommand(cmd *cobra.Command) (*server.Command, error) {
	key, err := targetPlatform()
	if err != nil {
		return nil, err
	}
	r, err := newResolver()
	if err != nil {
		return nil, err
	}

	l := &server.Launcher{Runtime: r, Dir: config.Get(config.KeyInstallDir)}
	c, err := l.Command(cmd.Context(), key)
	if err != nil {
		return nil, err
	}
	saveState(r)
	return c, nil
}
