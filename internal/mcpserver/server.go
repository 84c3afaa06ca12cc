// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the notes corpus to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/krisyotam/notes.krisyotam.com/internal/corpus"
)

// Server wraps the MCP server with the corpus tools. Every tool answers from
// the snapshot cache; the surface is read-only like the rest of the pipeline.
type Server struct {
	mcp   *server.MCPServer
	cache *corpus.Cache
}

// New creates a new MCP server with all corpus tools registered.
func New(cache *corpus.Cache) *Server {
	s := &Server{cache: cache}

	s.mcp = server.NewMCPServer(
		"notes.krisyotam.com",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note metadata, optionally restricted to a folder subtree."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for the whole corpus)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read one note: metadata, raw body, and rendered content."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note slug (e.g. slipbox/spacing), falling back to identifier")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find the notes that reference the given note identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Identifier of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return the link graph: one node per note, one edge per resolved note-to-note reference."),
	), s.getGraph)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the note format contract: the three source formats and the "+
			"metadata the pipeline extracts from each. Read it before writing files into the content root."),
	), s.getNoteContract)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("notes://note-format", "Note Format Contract",
			mcp.WithResourceDescription("The source formats and metadata conventions of the notes corpus."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// listItem is the compact per-note record list_notes emits.
type listItem struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Folder string `json:"folder"`
}

// inFolder reports whether a note folder lies in the subtree rooted at
// folder. An empty folder matches everything.
func inFolder(noteFolder, folder string) bool {
	if folder == "" {
		return true
	}
	return noteFolder == folder || strings.HasPrefix(noteFolder, folder+"/")
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = strings.Trim(f, "/")
	}

	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items := make([]listItem, 0, len(snap.Notes))
	for _, n := range snap.Notes {
		if !inFolder(n.Folder, folder) {
			continue
		}
		items = append(items, listItem{ID: n.ID, Slug: n.Slug, Title: n.Title, Folder: n.Folder})
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, ok := snap.Lookup(key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", key)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := snap.Backlinks(id)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(snap.Graph, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "notes://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
