package models

// GraphNode is one note in the link graph.
type GraphNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Folder string `json:"folder"`
}

// GraphLink is a directed edge from one note to another, both referenced by
// identifier. Parallel edges are preserved: a note that references the same
// target twice produces two links.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData is the complete link graph over a corpus snapshot.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
