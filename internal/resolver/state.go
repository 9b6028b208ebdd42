package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateFileName = "state.json"

// State is the resolution result persisted between processes, so a later
// run can seed WithCachedBinary instead of querying the release index again.
type State struct {
	NodeBinary string    `json:"node_binary"`
	Version    string    `json:"version,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// LoadState reads the state file from dir.
// Returns nil, nil if the file does not exist (first run).
func LoadState(dir string) (*State, error) {
	path := filepath.Join(dir, stateFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading resolver state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing resolver state: %w", err)
	}
	return &st, nil
}

// SaveState writes st to the state file in dir, creating dir if needed.
func SaveState(dir string, st *State) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling resolver state: %w", err)
	}

	path := filepath.Join(dir, stateFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing resolver state: %w", err)
	}
	return nil
}
