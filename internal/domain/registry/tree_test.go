package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/refdata"
	"github.com/stretchr/testify/require"
)

func sampleTree() []registry.Directory {
	return []registry.Directory{
		{
			ID:   1,
			Name: "Workflows",
			Scripts: []registry.Script{
				{ID: 10, Name: "Require assignee", Types: []registry.ScriptType{registry.TypeValidator}},
			},
			Children: []registry.Directory{
				{
					ID:   2,
					Name: "Support",
					Scripts: []registry.Script{
						{ID: 11, Name: "Close linked", Types: []registry.ScriptType{registry.TypeFunction}},
					},
				},
			},
		},
		{ID: 3, Name: "Empty"},
	}
}

func TestFlatten(t *testing.T) {
	scripts, paths := registry.Flatten(sampleTree())

	require.Len(t, scripts, 2)
	require.Equal(t, int64(10), scripts[0].ID)
	require.Equal(t, "Workflows", scripts[0].ParentName)
	require.Equal(t, int64(1), scripts[0].DirectoryID)
	require.Equal(t, "Workflows/Support", scripts[1].ParentName)
	require.Equal(t, int64(2), scripts[1].DirectoryID)

	require.Equal(t, refdata.Labels{1: "Workflows", 2: "Workflows/Support", 3: "Empty"}, paths)
}

func TestFlatten_Empty(t *testing.T) {
	scripts, paths := registry.Flatten(nil)
	require.Empty(t, scripts)
	require.Empty(t, paths)
}

type treeClient struct {
	registry.Client
	tree []registry.Directory
	err  error
}

func (c treeClient) GetTree(context.Context) ([]registry.Directory, error) {
	return c.tree, c.err
}

func TestScripts_GetAll(t *testing.T) {
	scripts, err := registry.Scripts{Client: treeClient{tree: sampleTree()}}.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	boom := errors.New("boom")
	_, err = registry.Scripts{Client: treeClient{err: boom}}.GetAll(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestDirectoryPaths(t *testing.T) {
	paths, err := registry.DirectoryPaths(context.Background(), treeClient{tree: sampleTree()})
	require.NoError(t, err)
	require.Equal(t, "Workflows/Support", paths[2])
}

func TestWithPath(t *testing.T) {
	_, paths := registry.Flatten(sampleTree())
	ref := refdata.New()
	ref.Load(refdata.SlotDirectories, paths)

	script := registry.WithPath(registry.Script{ID: 11, DirectoryID: 2, ParentName: "Support"}, ref)
	require.Equal(t, "Workflows/Support", script.ParentName)

	unknown := registry.WithPath(registry.Script{ID: 12, DirectoryID: 99, ParentName: "New"}, ref)
	require.Equal(t, "New", unknown.ParentName)
}

func TestScriptForm_Validate(t *testing.T) {
	valid := registry.ScriptForm{
		Name:        "Require assignee",
		DirectoryID: 1,
		Types:       []registry.ScriptType{registry.TypeValidator},
		ScriptBody:  "issue.assignee != null",
	}
	require.NoError(t, valid.Validate())

	noTypes := valid
	noTypes.Types = nil
	require.ErrorIs(t, noTypes.Validate(), registry.ErrInvalidInput)

	badType := valid
	badType.Types = []registry.ScriptType{"LISTENER"}
	require.ErrorIs(t, badType.Validate(), registry.ErrInvalidInput)

	noDir := valid
	noDir.DirectoryID = 0
	require.ErrorIs(t, noDir.Validate(), registry.ErrInvalidInput)
}

func TestDirectoryForm_Validate(t *testing.T) {
	require.NoError(t, registry.DirectoryForm{Name: "Root"}.Validate())
	require.ErrorIs(t, registry.DirectoryForm{Name: " "}.Validate(), registry.ErrInvalidInput)

	zero := int64(0)
	require.ErrorIs(t, registry.DirectoryForm{Name: "x", ParentID: &zero}.Validate(), registry.ErrInvalidInput)
}
