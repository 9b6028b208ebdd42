// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	RuntimeRepo string `yaml:"runtime_repo"`
	ServerID    string `yaml:"server_id"`
	UserAgent   string `yaml:"user_agent"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "yii2-ls",
			DisplayName: "Yii2 Navigation",
			Description: "Node runtime provisioning and launcher for the Yii2 navigation language server",
			HomeDir:     ".yii2-ls",
			EnvPrefix:   "YII2LS",
			RuntimeRepo: "nodejs/node",
			ServerID:    "yii2-navigation",
			UserAgent:   "yii2-ls",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "yii2-ls").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".yii2-ls").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "YII2LS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RuntimeRepo returns the "owner/repo" whose releases provide the Node runtime.
func RuntimeRepo() string { load(); return defaults.RuntimeRepo }

// ServerID returns the language server id used in installation status reports.
func ServerID() string { load(); return defaults.ServerID }

// UserAgent returns the User-Agent sent on every HTTP request.
func UserAgent() string { load(); return defaults.UserAgent }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("mirror") → "YII2LS_MIRROR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
