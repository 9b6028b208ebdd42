package resolver

import (
	"os/exec"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

// Locator finds an externally managed executable.
type Locator interface {
	Which(name string) (string, bool)
}

// LocatorFunc adapts a function to a Locator.
type LocatorFunc func(name string) (string, bool)

// Which calls f(name).
func (f LocatorFunc) Which(name string) (string, bool) { return f(name) }

// PathLocator searches the directories of the PATH environment variable.
type PathLocator struct{}

func (PathLocator) Which(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// ConfiguredLocator returns Path when it names an existing file and asks
// Fallback otherwise. A nil Fallback finds nothing.
type ConfiguredLocator struct {
	Path     string
	Fallback Locator
}

func (l ConfiguredLocator) Which(name string) (string, bool) {
	if l.Path != "" && platform.IsRegularFile(l.Path) {
		return l.Path, true
	}
	if l.Fallback == nil {
		return "", false
	}
	return l.Fallback.Which(name)
}

// NoLocator never finds anything, forcing a managed installation.
type NoLocator struct{}

func (NoLocator) Which(string) (string, bool) { return "", false }
