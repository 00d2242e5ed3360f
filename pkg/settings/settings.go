package settings

import (
	"context"
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

const (
	// KeyStorageRoots holds a JSON array of {path, label} objects. A bare
	// path string is the legacy single-root format and is still accepted.
	KeyStorageRoots = "skills.roots"
	// KeyEnabledSkills holds a JSON array of skill directory names in
	// insertion order.
	KeyEnabledSkills = "skills.enabled"
	// KeyRoutingModel holds the routing model identifier. Absence means
	// routing is unconfigured, not a default.
	KeyRoutingModel = "router.model"
)

// Settings wraps a Store with typed accessors. Read accessors never fail:
// missing or malformed stored values degrade to empty results.
type Settings struct {
	store Store
}

// New creates Settings over the given store
func New(store Store) *Settings {
	return &Settings{store: store}
}

// StorageRoots returns the configured storage roots in configured order.
// An empty result means nothing usable is configured.
func (s *Settings) StorageRoots(ctx context.Context) []skills.Root {
	value, found, err := s.store.Get(ctx, KeyStorageRoots)
	if err != nil || !found || value == "" {
		return nil
	}

	roots, err := decodeRoots(value)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("ignoring malformed storage roots setting")
		return nil
	}
	return roots
}

// decodeRoots accepts the JSON array form and the legacy bare path string.
func decodeRoots(value string) ([]skills.Root, error) {
	var rawList []any
	if err := json.Unmarshal([]byte(value), &rawList); err == nil {
		roots := make([]skills.Root, 0, len(rawList))
		for _, raw := range rawList {
			switch entry := raw.(type) {
			case string:
				roots = append(roots, skills.Root{Path: entry})
			default:
				var root skills.Root
				if err := mapstructure.Decode(entry, &root); err != nil {
					return nil, errors.Wrap(err, "invalid storage root entry")
				}
				if root.Path == "" {
					return nil, errors.New("storage root entry has no path")
				}
				roots = append(roots, root)
			}
		}
		return roots, nil
	}

	// Legacy format: the value may be a JSON string or a bare path.
	var single string
	if err := json.Unmarshal([]byte(value), &single); err == nil {
		return []skills.Root{{Path: single}}, nil
	}
	return []skills.Root{{Path: value}}, nil
}

// SetStorageRoots persists the storage root list, normalizing the legacy
// format away.
func (s *Settings) SetStorageRoots(ctx context.Context, roots []skills.Root) error {
	data, err := json.Marshal(roots)
	if err != nil {
		return errors.Wrap(err, "failed to encode storage roots")
	}
	return s.store.Set(ctx, KeyStorageRoots, string(data))
}

// ListEnabled returns the enabled skill names in insertion order. A
// malformed stored value yields an empty set.
func (s *Settings) ListEnabled(ctx context.Context) []string {
	value, found, err := s.store.Get(ctx, KeyEnabledSkills)
	if err != nil || !found || value == "" {
		return nil
	}

	var names []string
	if err := json.Unmarshal([]byte(value), &names); err != nil {
		logger.G(ctx).WithError(err).Debug("ignoring malformed enabled skills setting")
		return nil
	}
	return names
}

// IsEnabled reports whether the named skill is enabled.
func (s *Settings) IsEnabled(ctx context.Context, name string) bool {
	for _, enabled := range s.ListEnabled(ctx) {
		if enabled == name {
			return true
		}
	}
	return false
}

// Enable adds a skill name to the enabled set. Enabling an already
// enabled skill is a no-op.
func (s *Settings) Enable(ctx context.Context, name string) error {
	names := s.ListEnabled(ctx)
	for _, enabled := range names {
		if enabled == name {
			return nil
		}
	}
	return s.writeEnabled(ctx, append(names, name))
}

// Disable removes a skill name from the enabled set. Disabling a skill
// that is not enabled is a no-op.
func (s *Settings) Disable(ctx context.Context, name string) error {
	names := s.ListEnabled(ctx)
	remaining := names[:0]
	for _, enabled := range names {
		if enabled != name {
			remaining = append(remaining, enabled)
		}
	}
	if len(remaining) == len(names) {
		return nil
	}
	return s.writeEnabled(ctx, remaining)
}

func (s *Settings) writeEnabled(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return errors.Wrap(err, "failed to encode enabled skills")
	}
	return s.store.Set(ctx, KeyEnabledSkills, string(data))
}

// ListEnabledSkills composes repository discovery with the enabled-name
// set, filtering by directory name membership.
func (s *Settings) ListEnabledSkills(ctx context.Context, repo *skills.Repository) []*skills.Skill {
	enabled := make(map[string]bool)
	for _, name := range s.ListEnabled(ctx) {
		enabled[name] = true
	}
	if len(enabled) == 0 {
		return nil
	}

	var result []*skills.Skill
	for _, skill := range repo.ListSkills(ctx) {
		if enabled[skill.DirName] {
			result = append(result, skill)
		}
	}
	return result
}

// RoutingModel returns the configured routing model identifier and whether
// one is configured at all.
func (s *Settings) RoutingModel(ctx context.Context) (string, bool) {
	value, found, err := s.store.Get(ctx, KeyRoutingModel)
	if err != nil || !found || value == "" {
		return "", false
	}
	return value, true
}

// SetRoutingModel persists the routing model preference.
func (s *Settings) SetRoutingModel(ctx context.Context, model string) error {
	return s.store.Set(ctx, KeyRoutingModel, model)
}

// ClearRoutingModel removes the routing model preference, returning the
// router to its unconfigured state.
func (s *Settings) ClearRoutingModel(ctx context.Context) error {
	return s.store.Delete(ctx, KeyRoutingModel)
}

// RootsFunc adapts the settings store to the repository's storage root
// supplier.
func (s *Settings) RootsFunc() skills.RootsFunc {
	return func(ctx context.Context) []skills.Root {
		return s.StorageRoots(ctx)
	}
}
