package models

// FolderTree is a node in the hierarchical folder view. The root node has an
// empty name and path; every other node's path is its slash-joined location
// under the content root.
type FolderTree struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Children []*FolderTree  `json:"children"`
	Notes    []NoteMetadata `json:"notes"`
}

// Child returns the direct child with the given name, or nil.
func (t *FolderTree) Child(name string) *FolderTree {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
