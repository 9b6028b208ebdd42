package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/yii2-navigation/yii2-ls/internal/branding"
	"github.com/yii2-navigation/yii2-ls/internal/config"
	"github.com/yii2-navigation/yii2-ls/internal/fetch"
	"github.com/yii2-navigation/yii2-ls/internal/release"
	"github.com/yii2-navigation/yii2-ls/internal/resolver"
)

// newResolver wires a Resolver from the loaded configuration. The memo is
// seeded from the state saved by a previous run.
func newResolver() (*resolver.Resolver, error) {
	s, err := config.Current()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.InstallDir, 0755); err != nil {
		return nil, fmt.Errorf("creating install directory %s: %w", s.InstallDir, err)
	}

	index := release.NewClient(
		release.WithBaseURL(s.GitHubAPI),
		release.WithMirror(s.Mirror),
		release.WithUserAgent(branding.UserAgent()),
	)
	downloader := fetch.New(
		fetch.WithUserAgent(branding.UserAgent()),
		fetch.WithProgress(os.Stderr),
		fetch.WithLogger(log),
	)

	opts := []resolver.Option{
		resolver.WithDir(s.InstallDir),
		resolver.WithRepository(s.Repository),
		resolver.WithLogger(log),
		resolver.WithReporter(resolver.LogReporter{Log: log}),
		resolver.WithLocator(resolver.ConfiguredLocator{Path: s.NodePath, Fallback: resolver.PathLocator{}}),
	}

	st, err := resolver.LoadState(config.Dir())
	if err != nil {
		log.WithError(err).Warn("ignoring unreadable resolver state")
	} else if st != nil {
		opts = append(opts, resolver.WithCachedBinary(st.NodeBinary))
	}

	return resolver.New(index, downloader, opts...), nil
}

// saveState records the installation r produced, if any.
func saveState(r *resolver.Resolver) {
	if r.Cached() == "" || r.Version() == "" {
		return
	}
	st := &resolver.State{
		NodeBinary: r.Cached(),
		Version:    r.Version(),
		ResolvedAt: time.Now().UTC(),
	}
	if err := resolver.SaveState(config.Dir(), st); err != nil {
		log.WithError(err).Warn("could not save resolver state")
	}
}
