// Package skills manages a library of skill definitions stored as
// directories on disk. Each skill directory is anchored by a SKILL.md
// document whose frontmatter block declares the skill's name and
// description, optionally followed by supporting files that the skill's
// instructions can reference.
package skills

// DocumentFileName is the canonical name of the skill document inside a
// skill directory.
const DocumentFileName = "SKILL.md"

// lowercaseDocumentFileName is deliberately treated as invalid during
// discovery. A directory carrying only the lower-case variant is skipped.
const lowercaseDocumentFileName = "skill.md"

// Skill represents a discovered skill record.
type Skill struct {
	DirName      string   // directory name, the primary lookup key
	Meta         Metadata // parsed frontmatter metadata
	Body         string   // instruction body below the frontmatter
	Path         string   // absolute path to the skill directory
	DocumentPath string   // path to the SKILL.md document
	Files        []string // supporting file names, sorted, no recursion
}

// DisplayName returns the declared metadata name when present,
// falling back to the directory name.
func (s *Skill) DisplayName() string {
	if s.Meta.Name != "" {
		return s.Meta.Name
	}
	return s.DirName
}

// Matches reports whether the identifier refers to this skill either by
// directory name or by declared metadata name.
func (s *Skill) Matches(identifier string) bool {
	return s.DirName == identifier || s.Meta.Name == identifier
}

// Metadata is the structured frontmatter of a skill document. Well-known
// fields are typed; everything else is preserved in order under Extra.
type Metadata struct {
	Name         string
	Description  string
	AllowedTools []string
	Model        string
	Extra        []Field
}

// Field is a single unrecognized frontmatter entry, preserved verbatim
// under its normalized key. Values is non-nil when the entry was
// list-valued, otherwise Value holds the scalar form.
type Field struct {
	Key    string
	Value  string
	Values []string
}

// Root is a storage root under which skill directories are discovered.
type Root struct {
	Path  string `json:"path" mapstructure:"path"`
	Label string `json:"label,omitempty" mapstructure:"label,omitempty"`
}
