package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yii2-navigation/yii2-ls/internal/branding"
	"github.com/yii2-navigation/yii2-ls/internal/config"
	"github.com/yii2-navigation/yii2-ls/internal/logger"
	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	platformFlag string

	// log is replaced once configuration is loaded.
	log = logger.Default()
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Directory node releases are installed into")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")
	flags.StringVar(&platformFlag, "platform", "", "Target platform as <os>/<arch> (default: this machine)")
}

// bindFlags makes flags the highest-precedence source of their config keys.
func bindFlags(cmd *cobra.Command) error {
	bindings := map[string]string{
		config.KeyInstallDir: "dir",
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
	}
	for key, name := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` provisions a Node.js runtime for the Yii2 navigation
language server and starts the server over stdio.

A node found on PATH is used as is. Otherwise the latest stable release is
downloaded from ` + branding.RuntimeRepo() + ` and unpacked into the install directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		config.Load()

		l, err := logger.New(logger.Config{
			Level:  config.Get(config.KeyLogLevel),
			Format: config.Get(config.KeyLogFormat),
		})
		if err != nil {
			return err
		}
		log = l
		logger.SetDefault(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// targetPlatform returns the platform selected with --platform, or the
// running one.
func targetPlatform() (platform.Key, error) {
	if platformFlag == "" {
		return platform.Current()
	}
	k, err := platform.ParsePair(platformFlag)
	if err != nil {
		return platform.Key{}, fmt.Errorf("parsing --platform: %w", err)
	}
	return k, nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
