package corpus

import "github.com/krisyotam/notes.krisyotam.com/internal/models"

// BuildGraph derives the directed link graph. Node identity is the note ID;
// when two files collide on an ID the later one wins, matching the lookup
// maps. Edges keep their multiplicity, drop self-references, and drop targets
// that resolve to no node.
func BuildGraph(notes []*models.Note) *models.GraphData {
	g := &models.GraphData{
		Nodes: make([]models.GraphNode, 0, len(notes)),
		Links: []models.GraphLink{},
	}
	index := make(map[string]int, len(notes))
	for _, n := range notes {
		node := models.GraphNode{ID: n.ID, Title: n.Title, Slug: n.Slug, Folder: n.Folder}
		if i, ok := index[n.ID]; ok {
			g.Nodes[i] = node
			continue
		}
		index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
	}
	for _, n := range notes {
		for _, target := range n.Links {
			if target == n.ID {
				continue
			}
			if _, ok := index[target]; !ok {
				continue
			}
			g.Links = append(g.Links, models.GraphLink{Source: n.ID, Target: target})
		}
	}
	return g
}
