package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, dirName, content string) string {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentFileName), []byte(content), 0o644))
	return dir
}

func validDocument(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n\nDo the thing.\n"
}

func TestListSkills(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeSkill(t, root, "summarizer", validDocument("summarizer", "Summarizes text"))
	writeSkill(t, root, "reviewer", validDocument("code-reviewer", "Reviews code"))

	// Invalid entries that must all be skipped silently.
	writeSkill(t, root, "no-frontmatter", "just a body with no block\n")
	writeSkill(t, root, "missing-name", "---\ndescription: no name\n---\n\nbody\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file.md"), []byte("not a directory"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755))

	repo := NewRepository(WithRoots(Root{Path: root, Label: "test"}))
	found := repo.ListSkills(ctx)

	require.Len(t, found, 2)
	names := []string{found[0].DirName, found[1].DirName}
	assert.ElementsMatch(t, []string{"summarizer", "reviewer"}, names)
}

func TestListSkillsLowercaseDocumentSkipped(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	dir := filepath.Join(root, "lowercase-only")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skill.md"), []byte(validDocument("lowercase-only", "Should be ignored")), 0o644))

	repo := NewRepository(WithRoots(Root{Path: root}))
	assert.Empty(t, repo.ListSkills(ctx))
}

func TestListSkillsLowercaseBesideCanonical(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	dir := writeSkill(t, root, "both-cases", validDocument("both-cases", "Has both spellings"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skill.md"), []byte("notes"), 0o644))

	repo := NewRepository(WithRoots(Root{Path: root}))
	found := repo.ListSkills(ctx)

	// The canonical document wins; the lower-case file is an ordinary
	// supporting file, not metadata.
	require.Len(t, found, 1)
	assert.Equal(t, []string{"skill.md"}, found[0].Files)
}

func TestListSkillsSupportingFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	dir := writeSkill(t, root, "with-files", validDocument("with-files", "Has extras"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reference.md"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.txt"), []byte("tpl"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

	repo := NewRepository(WithRoots(Root{Path: root}))
	found := repo.ListSkills(ctx)

	require.Len(t, found, 1)
	// SKILL.md itself and subdirectories are not supporting files.
	assert.Equal(t, []string{"reference.md", "template.txt"}, found[0].Files)
}

func TestListSkillsMissingRoot(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(WithRoots(Root{Path: filepath.Join(t.TempDir(), "does-not-exist")}))
	assert.Empty(t, repo.ListSkills(ctx))
}

func TestListSkillsRootOrder(t *testing.T) {
	ctx := context.Background()
	first := t.TempDir()
	second := t.TempDir()

	writeSkill(t, first, "alpha", validDocument("alpha", "First root"))
	writeSkill(t, second, "beta", validDocument("beta", "Second root"))

	repo := NewRepository(WithRoots(Root{Path: first}, Root{Path: second}))
	found := repo.ListSkills(ctx)

	require.Len(t, found, 2)
	assert.Equal(t, "alpha", found[0].DirName)
	assert.Equal(t, "beta", found[1].DirName)
}

func TestFindSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	// Directory name and declared name differ on purpose.
	writeSkill(t, root, "dir-name", validDocument("declared-name", "Declared differs"))
	// A skill whose declared name collides with another directory's name.
	writeSkill(t, root, "other", validDocument("dir-name", "Collides with directory"))

	repo := NewRepository(WithRoots(Root{Path: root}))

	t.Run("directory name wins over declared name", func(t *testing.T) {
		skill := repo.FindSkill(ctx, "dir-name")
		require.NotNil(t, skill)
		assert.Equal(t, "dir-name", skill.DirName)
		assert.Equal(t, "declared-name", skill.Meta.Name)
	})

	t.Run("declared name consulted second", func(t *testing.T) {
		skill := repo.FindSkill(ctx, "declared-name")
		require.NotNil(t, skill)
		assert.Equal(t, "dir-name", skill.DirName)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, repo.FindSkill(ctx, "nope"))
	})
}

func TestReadSupportingFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	dir := writeSkill(t, root, "helper", validDocument("helper", "Has a reference file"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reference.md"), []byte("reference content"), 0o644))

	repo := NewRepository(WithRoots(Root{Path: root}))

	t.Run("reads existing file", func(t *testing.T) {
		content, err := repo.ReadSupportingFile(ctx, "helper", "reference.md")
		require.NoError(t, err)
		assert.Equal(t, "reference content", string(content))
	})

	t.Run("unknown skill", func(t *testing.T) {
		_, err := repo.ReadSupportingFile(ctx, "missing", "reference.md")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := repo.ReadSupportingFile(ctx, "helper", "nope.md")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := repo.ReadSupportingFile(ctx, "helper", "../helper/reference.md")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestCreateSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewRepository(WithRoots(Root{Path: root, Label: "test"}))

	skill, err := repo.CreateSkill(ctx, CreateRequest{
		Name:         "summarizer",
		Description:  "Summarizes text",
		Body:         "Summarize the input.",
		AllowedTools: []string{"bash"},
		Model:        "claude-sonnet-4-5",
	})
	require.NoError(t, err)
	assert.Equal(t, "summarizer", skill.DirName)
	assert.Equal(t, filepath.Join(root, "summarizer"), skill.Path)

	loaded := repo.FindSkill(ctx, "summarizer")
	require.NotNil(t, loaded)
	assert.Equal(t, "Summarizes text", loaded.Meta.Description)
	assert.Equal(t, []string{"bash"}, loaded.Meta.AllowedTools)
	assert.Equal(t, "claude-sonnet-4-5", loaded.Meta.Model)
	assert.Equal(t, "Summarize the input.", loaded.Body)
}

func TestCreateSkillOverwrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewRepository(WithRoots(Root{Path: root}))

	_, err := repo.CreateSkill(ctx, CreateRequest{Name: "dup", Description: "First version", Body: "v1"})
	require.NoError(t, err)

	t.Run("silent overwrite by default", func(t *testing.T) {
		_, err := repo.CreateSkill(ctx, CreateRequest{Name: "dup", Description: "Second version", Body: "v2"})
		require.NoError(t, err)

		loaded := repo.FindSkill(ctx, "dup")
		require.NotNil(t, loaded)
		assert.Equal(t, "Second version", loaded.Meta.Description)
		assert.Equal(t, "v2", loaded.Body)
	})

	t.Run("FailIfExists guards the overwrite", func(t *testing.T) {
		_, err := repo.CreateSkill(ctx, CreateRequest{Name: "dup", Description: "Third version", FailIfExists: true})
		assert.True(t, errors.Is(err, ErrAlreadyExists))
	})
}

func TestCreateSkillValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(WithRoots(Root{Path: t.TempDir()}))

	tests := []struct {
		name    string
		req     CreateRequest
		wantMsg string
	}{
		{
			name:    "empty name",
			req:     CreateRequest{Description: "d"},
			wantMsg: "name is required",
		},
		{
			name:    "empty description",
			req:     CreateRequest{Name: "ok"},
			wantMsg: "description is required",
		},
		{
			name:    "invalid characters",
			req:     CreateRequest{Name: "has spaces", Description: "d"},
			wantMsg: "must be alphanumeric",
		},
		{
			name:    "leading separator",
			req:     CreateRequest{Name: "-leading", Description: "d"},
			wantMsg: "must be alphanumeric",
		},
		{
			name:    "name too long",
			req:     CreateRequest{Name: strings.Repeat("a", maxNameLength+1), Description: "d"},
			wantMsg: "name exceeds",
		},
		{
			name:    "description too long",
			req:     CreateRequest{Name: "ok", Description: strings.Repeat("d", maxDescriptionLength+1)},
			wantMsg: "description exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateSkill(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("multiple failures aggregated", func(t *testing.T) {
		_, err := repo.CreateSkill(ctx, CreateRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
		assert.Contains(t, err.Error(), "description is required")
	})

	t.Run("underscores and hyphens allowed", func(t *testing.T) {
		_, err := repo.CreateSkill(ctx, CreateRequest{Name: "my_skill-v2", Description: "d"})
		assert.NoError(t, err)
	})
}

func TestUpdateSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewRepository(WithRoots(Root{Path: root}))

	writeSkill(t, root, "target", `---
name: target
description: Original description
argument-hint: <topic>
---

Original body.
`)

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		desc := "Updated description"
		updated, err := repo.UpdateSkill(ctx, "target", Update{Description: &desc})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Updated description", updated.Meta.Description)
		assert.Equal(t, "target", updated.Meta.Name)
		assert.Equal(t, "Original body.", updated.Body)

		// The unrecognized field survives the rewrite.
		reloaded := repo.FindSkill(ctx, "target")
		require.NotNil(t, reloaded)
		require.Len(t, reloaded.Meta.Extra, 1)
		assert.Equal(t, "argumentHint", reloaded.Meta.Extra[0].Key)
	})

	t.Run("clearing a field with a zero-value pointer", func(t *testing.T) {
		tools := []string{"bash"}
		_, err := repo.UpdateSkill(ctx, "target", Update{AllowedTools: &tools})
		require.NoError(t, err)

		empty := []string{}
		updated, err := repo.UpdateSkill(ctx, "target", Update{AllowedTools: &empty})
		require.NoError(t, err)
		require.NotNil(t, updated)

		reloaded := repo.FindSkill(ctx, "target")
		require.NotNil(t, reloaded)
		assert.Empty(t, reloaded.Meta.AllowedTools)
	})

	t.Run("unknown identifier resolves to nil without error", func(t *testing.T) {
		desc := "irrelevant"
		updated, err := repo.UpdateSkill(ctx, "missing", Update{Description: &desc})
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestDeleteSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewRepository(WithRoots(Root{Path: root}))

	dir := writeSkill(t, root, "doomed", validDocument("doomed", "Will be removed"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.md"), []byte("x"), 0o644))

	t.Run("removes the whole directory", func(t *testing.T) {
		deleted, err := repo.DeleteSkill(ctx, "doomed")
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unknown identifier reports false without error", func(t *testing.T) {
		deleted, err := repo.DeleteSkill(ctx, "doomed")
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".skillkit", "skills"), root.Path)
	assert.Equal(t, "user", root.Label)
}
