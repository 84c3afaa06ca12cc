package api

import "github.com/krisyotam/notes.krisyotam.com/internal/models"

// NoteListResponse wraps a note metadata listing.
type NoteListResponse struct {
	Notes []models.NoteMetadata `json:"notes" validate:"required"`
	Total int                   `json:"total" example:"42" validate:"required"`
}

// NoteListItem is one entry of a listing (aliased from the domain layer).
type NoteListItem = models.NoteMetadata

// TreeResponse is the folder hierarchy (aliased from the domain layer). The
// root node carries an empty name and path; its children start with the fixed
// top-level folder set.
type TreeResponse = models.FolderTree

// GraphResponse is the link graph (aliased from the domain layer).
type GraphResponse = models.GraphData

// GraphNode is a node in the link graph (aliased for swag).
type GraphNode = models.GraphNode

// GraphLink is an edge in the link graph (aliased for swag).
type GraphLink = models.GraphLink
