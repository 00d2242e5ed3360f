package main

import (
	"context"

	"github.com/jingkaihe/skillkit/pkg/settings"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// openEnv opens the settings store and builds a repository over it. The
// returned cleanup function closes the store.
func openEnv(ctx context.Context) (*settings.Settings, *skills.Repository, func(), error) {
	store, err := settings.Open(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	s := settings.New(store)
	repo := skills.NewRepository(skills.WithRootsFunc(s.RootsFunc()))
	return s, repo, func() { store.Close() }, nil
}
