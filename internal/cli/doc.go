// Package cli defines the Cobra command tree for the yii2-ls CLI. Each file
// registers one top-level command with the root command. Commands delegate
// provisioning to the resolver and server packages and only handle flags
// and output formatting.
package cli
