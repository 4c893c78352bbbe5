package registry

import (
	"context"

	"github.com/rpggio/scriptdesk/internal/refdata"
)

const pathSeparator = "/"

// Flatten walks the tree depth first and returns every script with
// ParentName set to the full path of its directory, together with a
// directory id to path map.
func Flatten(tree []Directory) ([]Script, refdata.Labels) {
	var scripts []Script
	paths := make(refdata.Labels)

	var walk func(dirs []Directory, prefix string)
	walk = func(dirs []Directory, prefix string) {
		for _, dir := range dirs {
			path := dir.Name
			if prefix != "" {
				path = prefix + pathSeparator + dir.Name
			}
			paths[dir.ID] = path

			for _, script := range dir.Scripts {
				script.DirectoryID = dir.ID
				script.ParentName = path
				scripts = append(scripts, script)
			}
			walk(dir.Children, path)
		}
	}
	walk(tree, "")

	return scripts, paths
}

// WithPath sets ParentName to the full path of the script's directory as
// held in the directories slot. The server only reports the bare directory
// name on create and update; unknown directories keep it.
func WithPath(s Script, ref *refdata.Cache) Script {
	if path, ok := ref.Get(refdata.SlotDirectories, s.DirectoryID); ok {
		s.ParentName = path
	}
	return s
}

// Scripts presents the registry's scripts as a flat collection.
type Scripts struct {
	Client Client
}

// GetAll fetches the tree and flattens it.
func (s Scripts) GetAll(ctx context.Context) ([]Script, error) {
	tree, err := s.Client.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	scripts, _ := Flatten(tree)
	return scripts, nil
}

// Create creates a script.
func (s Scripts) Create(ctx context.Context, form ScriptForm) (Script, error) {
	return s.Client.CreateScript(ctx, form)
}

// Update updates a script.
func (s Scripts) Update(ctx context.Context, id int64, form ScriptForm) (Script, error) {
	return s.Client.UpdateScript(ctx, id, form)
}

// Delete deletes a script.
func (s Scripts) Delete(ctx context.Context, id int64) error {
	return s.Client.DeleteScript(ctx, id)
}

// DirectoryPaths fetches the tree and returns the directory path labels.
func DirectoryPaths(ctx context.Context, client Client) (refdata.Labels, error) {
	tree, err := client.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	_, paths := Flatten(tree)
	return paths, nil
}
