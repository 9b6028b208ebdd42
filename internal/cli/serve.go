package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yii2-navigation/yii2-ls/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the language server on stdio",
	Long: `Resolve node and run the Yii2 navigation language server with this
process's stdin and stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := languageServerCommand(cmd)
		if err != nil {
			return err
		}

		log.Info("starting language server", zap.String("node", c.Path), zap.Strings("args", c.Args))
		code, err := server.Run(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("language server exited with status %d", code)
		}
		return nil
	},
}
