package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

var platformJSON bool

func init() {
	platformCmd.Flags().BoolVar(&platformJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(platformCmd)
}

type platformInfo struct {
	Platform   string `json:"platform"`
	Asset      string `json:"asset"`
	VersionDir string `json:"version_dir"`
	Binary     string `json:"binary"`
	Archive    string `json:"archive"`
}

var platformCmd = &cobra.Command{
	Use:   "platform <version>",
	Short: "Show the release asset and binary path used for a node version",
	Example: `  yii2-ls platform v20.10.0
  yii2-ls platform v20.10.0 --platform windows/arm64`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := targetPlatform()
		if err != nil {
			return err
		}
		layout, err := platform.LayoutFor(key)
		if err != nil {
			return err
		}

		version := args[0]
		info := platformInfo{
			Platform:   key.String(),
			Asset:      layout.AssetName(version),
			VersionDir: platform.VersionDir(version),
			Binary:     layout.BinaryPath(version),
			Archive:    layout.Kind.String(),
		}

		out := cmd.OutOrStdout()
		if platformJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling platform info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Platform:\t%s\n", info.Platform)
		fmt.Fprintf(w, "Asset:\t%s\n", info.Asset)
		fmt.Fprintf(w, "Version dir:\t%s\n", info.VersionDir)
		fmt.Fprintf(w, "Binary:\t%s\n", info.Binary)
		fmt.Fprintf(w, "Archive:\t%s\n", info.Archive)
		return w.Flush()
	},
}
