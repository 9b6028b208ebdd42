package server

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

// ScriptName is the file name the bundled server script is written under.
const ScriptName = "yii2-server.js"

//go:embed yii2-server.js
var script []byte

// Script returns the bundled language server script.
func Script() []byte {
	return script
}

// Command is a process invocation handed to the editor host.
type Command struct {
	Path string            `json:"command"`
	Args []string          `json:"args"`
	Env  map[string]string `json:"env"`
}

// Runtime produces a node executable path for a platform.
type Runtime interface {
	Resolve(ctx context.Context, key platform.Key) (string, error)
}

// Launcher assembles the language server command.
type Launcher struct {
	Runtime Runtime
	// Dir is where the server script is written. Empty means the process
	// working directory.
	Dir string
	// Script overrides the bundled server script.
	Script []byte
}

// Command resolves node for key and returns the command that starts the
// server over stdio. The script is written only when no file exists at its path.
func (l *Launcher) Command(ctx context.Context, key platform.Key) (*Command, error) {
	node, err := l.Runtime.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	scriptPath := ScriptName
	if l.Dir != "" {
		scriptPath = filepath.Join(l.Dir, ScriptName)
	}

	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		body := l.Script
		if body == nil {
			body = script
		}
		if err := os.WriteFile(scriptPath, body, 0644); err != nil {
			return nil, fmt.Errorf("failed to write server script: %w", err)
		}
	}

	return &Command{
		Path: node,
		Args: []string{scriptPath, "--stdio"},
		Env:  map[string]string{},
	}, nil
}
