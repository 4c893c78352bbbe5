package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestRegistryRepository_Tree(t *testing.T) {
	repo := NewRegistryRepository(NewTestDB(t))
	ctx := context.Background()

	root, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "Workflows"})
	require.NoError(t, err)
	child, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "Support", ParentID: &root.ID})
	require.NoError(t, err)

	script, err := repo.CreateScript(ctx, "admin", registry.ScriptForm{
		Name:        "Require assignee",
		DirectoryID: child.ID,
		Types:       []registry.ScriptType{registry.TypeValidator, registry.TypeCondition},
		ScriptBody:  "issue.assignee != null",
	})
	require.NoError(t, err)
	require.Equal(t, "Support", script.ParentName)
	require.Equal(t, []registry.ScriptType{registry.TypeValidator, registry.TypeCondition}, script.Types)

	tree, err := repo.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "Workflows", tree[0].Name)
	require.Empty(t, tree[0].Scripts)
	require.Len(t, tree[0].Children, 1)
	require.Equal(t, child.ID, tree[0].Children[0].ID)
	require.Len(t, tree[0].Children[0].Scripts, 1)
	require.Equal(t, script.ID, tree[0].Children[0].Scripts[0].ID)

	scripts, paths := registry.Flatten(tree)
	require.Len(t, scripts, 1)
	require.Equal(t, "Workflows/Support", scripts[0].ParentName)
	require.Equal(t, "Workflows/Support", paths[child.ID])
}

func TestRegistryRepository_ScriptNeedsDirectory(t *testing.T) {
	repo := NewRegistryRepository(NewTestDB(t))

	_, err := repo.CreateScript(context.Background(), "admin", registry.ScriptForm{
		Name:        "Orphan",
		DirectoryID: 42,
		Types:       []registry.ScriptType{registry.TypeFunction},
		ScriptBody:  "x",
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestRegistryRepository_UpdateScript(t *testing.T) {
	repo := NewRegistryRepository(NewTestDB(t))
	ctx := context.Background()

	dir, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "Workflows"})
	require.NoError(t, err)
	form := registry.ScriptForm{Name: "A", DirectoryID: dir.ID, Types: []registry.ScriptType{registry.TypeFunction}, ScriptBody: "x"}
	created, err := repo.CreateScript(ctx, "admin", form)
	require.NoError(t, err)

	form.Name = "B"
	updated, err := repo.UpdateScript(ctx, "admin", created.ID, form)
	require.NoError(t, err)
	require.Equal(t, "B", updated.Name)
	require.NotEqual(t, created.UUID, updated.UUID)

	require.NoError(t, repo.DeleteScript(ctx, "admin", created.ID))
	_, err = repo.UpdateScript(ctx, "admin", created.ID, form)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegistryRepository_DeleteDirectory(t *testing.T) {
	repo := NewRegistryRepository(NewTestDB(t))
	ctx := context.Background()

	root, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "Workflows"})
	require.NoError(t, err)
	child, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "Support", ParentID: &root.ID})
	require.NoError(t, err)

	require.ErrorIs(t, repo.DeleteDirectory(ctx, root.ID), repository.ErrNotEmpty)
	require.NoError(t, repo.DeleteDirectory(ctx, child.ID))
	require.NoError(t, repo.DeleteDirectory(ctx, root.ID))
	require.ErrorIs(t, repo.DeleteDirectory(ctx, root.ID), repository.ErrNotFound)

	tree, err := repo.Tree(ctx)
	require.NoError(t, err)
	require.Empty(t, tree)
}

func TestRegistryRepository_MoveDirectoryRejectsCycle(t *testing.T) {
	repo := NewRegistryRepository(NewTestDB(t))
	ctx := context.Background()

	root, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "A"})
	require.NoError(t, err)
	child, err := repo.CreateDirectory(ctx, registry.DirectoryForm{Name: "B", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = repo.UpdateDirectory(ctx, root.ID, registry.DirectoryForm{Name: "A", ParentID: &child.ID})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	_, err = repo.UpdateDirectory(ctx, root.ID, registry.DirectoryForm{Name: "A", ParentID: &root.ID})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	renamed, err := repo.UpdateDirectory(ctx, child.ID, registry.DirectoryForm{Name: "C"})
	require.NoError(t, err)
	require.Equal(t, "C", renamed.Name)
}
