package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/yii2-navigation/yii2-ls/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyMirror     = "mirror"
	KeyRepository = "repository"
	KeyInstallDir = "install_dir"
	KeyNodePath   = "node_path"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyGitHubAPI  = "github_api"
)

// Settings is the decoded configuration.
type Settings struct {
	Mirror     string `mapstructure:"mirror"`
	Repository string `mapstructure:"repository"`
	InstallDir string `mapstructure:"install_dir"`
	NodePath   string `mapstructure:"node_path"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	GitHubAPI  string `mapstructure:"github_api"`
}

// Dir returns the path to the config directory (~/.yii2-ls/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.yii2-ls/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// DefaultInstallDir is where node releases are unpacked unless configured.
func DefaultInstallDir() string {
	return filepath.Join(Dir(), "runtime")
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func defaults() map[string]string {
	return map[string]string{
		KeyMirror:     "",
		KeyRepository: branding.RuntimeRepo(),
		KeyInstallDir: DefaultInstallDir(),
		KeyNodePath:   "",
		KeyLogLevel:   "info",
		KeyLogFormat:  "console",
		KeyGitHubAPI:  "https://api.github.com",
	}
}

// Keys returns the supported configuration keys in sorted order.
func Keys() []string {
	d := defaults()
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is a supported configuration key.
func IsKey(key string) bool {
	_, ok := defaults()[key]
	return ok
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for k, v := range defaults() {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current decodes the loaded configuration.
func Current() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return &s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown configuration key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
