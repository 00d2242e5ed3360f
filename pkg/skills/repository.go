package skills

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/logger"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?:[-_][a-zA-Z0-9]+)*$`)

// RootsFunc supplies the configured storage roots for a call. The
// repository re-queries it on every operation so that configuration
// changes are visible without restarts.
type RootsFunc func(ctx context.Context) []Root

// Repository discovers, loads, creates, updates, and deletes skill
// records across the configured storage roots. Nothing is cached; every
// query re-reads the filesystem.
type Repository struct {
	roots RootsFunc
}

// Option is a function that configures a Repository
type Option func(*Repository)

// WithRoots sets a fixed list of storage roots
func WithRoots(roots ...Root) Option {
	return func(r *Repository) {
		r.roots = func(context.Context) []Root { return roots }
	}
}

// WithRootsFunc sets a dynamic storage root supplier
func WithRootsFunc(fn RootsFunc) Option {
	return func(r *Repository) {
		r.roots = fn
	}
}

// NewRepository creates a new skill repository
func NewRepository(opts ...Option) *Repository {
	r := &Repository{}
	for _, opt := range opts {
		opt(r)
	}
	if r.roots == nil {
		r.roots = func(context.Context) []Root { return nil }
	}
	return r
}

// DefaultRoot returns the storage root used when none is configured.
func DefaultRoot() (Root, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Root{}, errors.Wrap(err, "failed to get user home directory")
	}
	return Root{Path: filepath.Join(home, ".skillkit", "skills"), Label: "user"}, nil
}

// ListRoots returns the configured storage roots in order, or the single
// default root when none are configured.
func (r *Repository) ListRoots(ctx context.Context) []Root {
	roots := r.roots(ctx)
	if len(roots) > 0 {
		return roots
	}

	def, err := DefaultRoot()
	if err != nil {
		logger.G(ctx).WithError(err).Debug("no default skill root available")
		return nil
	}
	return []Root{def}
}

// ListSkills discovers every valid skill under the configured roots in
// root order, then directory order. It never fails: missing roots,
// unreadable directories, and invalid documents are skipped silently.
func (r *Repository) ListSkills(ctx context.Context) []*Skill {
	var found []*Skill

	for _, root := range r.ListRoots(ctx) {
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			// Roots that do not exist yet are not an error.
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			dir := filepath.Join(root.Path, entry.Name())
			skill, ok := r.loadSkill(ctx, dir, entry.Name())
			if !ok {
				continue
			}
			found = append(found, skill)
		}
	}

	return found
}

// loadSkill loads one skill directory. The document must exist under its
// canonical name: a directory carrying only the lower-case variant is
// skipped on purpose and logged at debug level.
func (r *Repository) loadSkill(ctx context.Context, dir, dirName string) (*Skill, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}

	var hasDocument, hasLowercase bool
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if entry.Name() == DocumentFileName {
			hasDocument = true
			continue
		}
		if entry.Name() == lowercaseDocumentFileName {
			hasLowercase = true
		}
		// Only the canonical document is metadata; a lower-case variant
		// next to it is just another supporting file.
		files = append(files, entry.Name())
	}

	if !hasDocument {
		if hasLowercase {
			logger.G(ctx).WithField("dir", dir).Debug("skipping skill with lower-case document name")
		}
		return nil, false
	}

	documentPath := filepath.Join(dir, DocumentFileName)
	content, err := os.ReadFile(documentPath)
	if err != nil {
		return nil, false
	}

	doc, ok := ParseDocument(string(content))
	if !ok {
		return nil, false
	}
	if doc.Meta.Name == "" || doc.Meta.Description == "" {
		return nil, false
	}

	return &Skill{
		DirName:      dirName,
		Meta:         doc.Meta,
		Body:         doc.Body,
		Path:         dir,
		DocumentPath: documentPath,
		Files:        files,
	}, true
}

// FindSkill resolves an identifier to a skill. Directory-name matches win;
// declared metadata names are only consulted when no directory matches.
// Returns nil when nothing matches.
func (r *Repository) FindSkill(ctx context.Context, identifier string) *Skill {
	all := r.ListSkills(ctx)

	for _, skill := range all {
		if skill.DirName == identifier {
			return skill
		}
	}
	for _, skill := range all {
		if skill.Meta.Name == identifier {
			return skill
		}
	}
	return nil
}

// ReadSupportingFile reads a supporting file from a skill's directory.
func (r *Repository) ReadSupportingFile(ctx context.Context, identifier, fileName string) ([]byte, error) {
	skill := r.FindSkill(ctx, identifier)
	if skill == nil {
		return nil, errors.Wrapf(ErrNotFound, "skill %q", identifier)
	}

	if fileName != filepath.Base(fileName) || strings.Contains(fileName, "..") {
		return nil, errors.Wrapf(ErrNotFound, "file %q in skill %q", fileName, identifier)
	}

	path := filepath.Join(skill.Path, fileName)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errors.Wrapf(ErrNotFound, "file %q in skill %q", fileName, identifier)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %q in skill %q", fileName, identifier)
	}
	return content, nil
}

// CreateRequest carries the inputs for creating a skill.
type CreateRequest struct {
	Name         string
	Description  string
	Body         string
	AllowedTools []string
	Model        string
	Root         *Root // target root, first configured root when nil
	FailIfExists bool  // guard against the default silent overwrite
}

// CreateSkill validates the request and writes a new skill directory and
// document. A second creation with the same name silently overwrites the
// existing document unless FailIfExists is set.
func (r *Repository) CreateSkill(ctx context.Context, req CreateRequest) (*Skill, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	root := req.Root
	if root == nil {
		roots := r.ListRoots(ctx)
		if len(roots) == 0 {
			return nil, errors.New("no storage root available")
		}
		root = &roots[0]
	}

	dir := filepath.Join(root.Path, req.Name)
	documentPath := filepath.Join(dir, DocumentFileName)

	if req.FailIfExists {
		if _, err := os.Stat(documentPath); err == nil {
			return nil, errors.Wrapf(ErrAlreadyExists, "skill %q", req.Name)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create skill directory %s", dir)
	}

	meta := Metadata{
		Name:         req.Name,
		Description:  req.Description,
		AllowedTools: req.AllowedTools,
		Model:        req.Model,
	}
	if err := os.WriteFile(documentPath, []byte(SerializeDocument(meta, req.Body)), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write skill document %s", documentPath)
	}

	logger.G(ctx).WithField("skill", req.Name).WithField("root", root.Path).Debug("created skill")

	return &Skill{
		DirName:      req.Name,
		Meta:         meta,
		Body:         strings.TrimSpace(req.Body),
		Path:         dir,
		DocumentPath: documentPath,
	}, nil
}

func validateCreate(req CreateRequest) error {
	var errs *multierror.Error

	switch {
	case req.Name == "":
		errs = multierror.Append(errs, errors.New("name is required"))
	case len(req.Name) > maxNameLength:
		errs = multierror.Append(errs, errors.Errorf("name exceeds %d characters", maxNameLength))
	case !namePattern.MatchString(req.Name):
		errs = multierror.Append(errs, errors.Errorf("name %q must be alphanumeric with interior hyphens or underscores", req.Name))
	}

	switch {
	case req.Description == "":
		errs = multierror.Append(errs, errors.New("description is required"))
	case len(req.Description) > maxDescriptionLength:
		errs = multierror.Append(errs, errors.Errorf("description exceeds %d characters", maxDescriptionLength))
	}

	return newValidationError(errs)
}

// Update carries a partial skill update. Nil fields are left untouched;
// a pointer to the zero value clears the field.
type Update struct {
	Name         *string
	Description  *string
	Body         *string
	Model        *string
	AllowedTools *[]string
}

// UpdateSkill merges the provided fields over the skill's current document
// and rewrites it. The current document is re-read from disk rather than
// merged over the in-memory record so that fields absent from the
// projection survive. Returns nil when the skill cannot be resolved or its
// current document no longer parses.
func (r *Repository) UpdateSkill(ctx context.Context, identifier string, update Update) (*Skill, error) {
	skill := r.FindSkill(ctx, identifier)
	if skill == nil {
		return nil, nil
	}

	content, err := os.ReadFile(skill.DocumentPath)
	if err != nil {
		return nil, nil
	}
	doc, ok := ParseDocument(string(content))
	if !ok {
		return nil, nil
	}

	meta := doc.Meta
	body := doc.Body
	if update.Name != nil {
		meta.Name = *update.Name
	}
	if update.Description != nil {
		meta.Description = *update.Description
	}
	if update.Model != nil {
		meta.Model = *update.Model
	}
	if update.AllowedTools != nil {
		meta.AllowedTools = *update.AllowedTools
	}
	if update.Body != nil {
		body = *update.Body
	}

	if err := os.WriteFile(skill.DocumentPath, []byte(SerializeDocument(meta, body)), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write skill document %s", skill.DocumentPath)
	}

	merged := *skill
	merged.Meta = meta
	merged.Body = strings.TrimSpace(body)
	return &merged, nil
}

// DeleteSkill removes a skill's directory recursively. Returns false when
// the identifier does not resolve; once the removal call returns, the
// deletion is reported as successful without re-checking existence.
func (r *Repository) DeleteSkill(ctx context.Context, identifier string) (bool, error) {
	skill := r.FindSkill(ctx, identifier)
	if skill == nil {
		return false, nil
	}

	if err := os.RemoveAll(skill.Path); err != nil {
		return false, errors.Wrapf(err, "failed to remove skill directory %s", skill.Path)
	}

	logger.G(ctx).WithField("skill", identifier).Debug("deleted skill")
	return true, nil
}
