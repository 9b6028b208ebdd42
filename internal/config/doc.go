// Package config manages user-level settings stored at ~/.yii2-ls/config.yaml.
// Values come from command-line flags, YII2LS_* environment variables, the
// config file and built-in defaults, in that order.
package config
