package corpus

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/krisyotam/notes.krisyotam.com/internal/models"
)

// BuildFolderTree groups notes by folder into a hierarchy. The configured
// top-level folders are always present, in their configured order; every
// other folder appears lazily in the order the walk first met it. Notes
// within a node sort by title with locale-aware collation.
func BuildFolderTree(notes []*models.Note, topFolders []string) *models.FolderTree {
	root := newNode("", "")
	for _, name := range topFolders {
		root.Children = append(root.Children, newNode(name, name))
	}

	order := make([]string, 0, len(notes))
	groups := make(map[string][]models.NoteMetadata, len(notes))
	for _, n := range notes {
		if _, ok := groups[n.Folder]; !ok {
			order = append(order, n.Folder)
		}
		groups[n.Folder] = append(groups[n.Folder], n.NoteMetadata)
	}

	for _, folder := range order {
		node := root
		if folder != "" {
			for _, seg := range strings.Split(folder, "/") {
				node = childOrCreate(node, seg)
			}
		}
		node.Notes = append(node.Notes, groups[folder]...)
	}

	sortNotes(root, collate.New(language.English))
	return root
}

func newNode(name, path string) *models.FolderTree {
	return &models.FolderTree{
		Name:     name,
		Path:     path,
		Children: []*models.FolderTree{},
		Notes:    []models.NoteMetadata{},
	}
}

func childOrCreate(n *models.FolderTree, name string) *models.FolderTree {
	if c := n.Child(name); c != nil {
		return c
	}
	p := name
	if n.Path != "" {
		p = n.Path + "/" + name
	}
	c := newNode(name, p)
	n.Children = append(n.Children, c)
	return c
}

// sortNotes orders the notes of every node by title. Child order is
// structural (configured set first, then first-seen) and stays untouched.
func sortNotes(n *models.FolderTree, c *collate.Collator) {
	sort.SliceStable(n.Notes, func(i, j int) bool {
		return c.CompareString(n.Notes[i].Title, n.Notes[j].Title) < 0
	})
	for _, child := range n.Children {
		sortNotes(child, c)
	}
}
