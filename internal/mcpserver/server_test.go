package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/krisyotam/notes.krisyotam.com/internal/corpus"
	"github.com/krisyotam/notes.krisyotam.com/internal/render"
	"github.com/krisyotam/notes.krisyotam.com/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "slipbox/spacing.md",
		"---\nid: sp1\ntitle: Spaced repetition\ntags: [memory]\n---\nSee [testing](note:te1) and [ghost](note:gh0).\n")
	testutil.WriteFile(t, root, "slipbox/deep/chunking.md",
		"---\nid: ch1\ntitle: Chunking\n---\nPairs with [spacing](note:sp1).\n")
	testutil.WriteFile(t, root, "reference/testing.org",
		":PROPERTIES:\n:ID: te1\n:END:\n#+title: Testing effect\n\nBack to [[id:sp1][spacing]].\n")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cache := corpus.NewCache(corpus.NewService(store, render.New(), nil, logger))
	return New(cache)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so dispatch to the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_graph":
		result, err = srv.getGraph(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListNotes(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	var items []listItem
	if err := json.Unmarshal([]byte(resultText(r)), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
}

func TestListNotes_FolderSubtree(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_notes", map[string]interface{}{"folder": "slipbox"})
	var items []listItem
	if err := json.Unmarshal([]byte(resultText(r)), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// slipbox/spacing plus the nested slipbox/deep/chunking.
	if len(items) != 2 {
		t.Fatalf("items = %+v, want 2 slipbox notes", items)
	}
	for _, it := range items {
		if !strings.HasPrefix(it.Slug, "slipbox/") {
			t.Errorf("slug %q outside slipbox", it.Slug)
		}
	}
}

func TestReadNote_BySlugAndID(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_note", map[string]interface{}{"key": "slipbox/spacing"})
	text := resultText(r)
	if !strings.Contains(text, `"id": "sp1"`) {
		t.Errorf("read by slug = %q", text)
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"key": "te1"})
	text = resultText(r)
	if !strings.Contains(text, `"slug": "reference/testing"`) {
		t.Errorf("read by id = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"key": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestGetBacklinks(t *testing.T) {
	srv := testServer(t)

	// Corpus order: reference/testing.org walks before slipbox/deep/chunking.md.
	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"id": "sp1"})
	text := resultText(r)
	lines := strings.Split(text, "\n")
	if len(lines) != 2 || lines[0] != "te1" || lines[1] != "ch1" {
		t.Errorf("backlinks = %q, want te1 then ch1", text)
	}

	r = callTool(t, srv, "get_backlinks", map[string]interface{}{"id": "ch1"})
	if resultText(r) != "no backlinks found" {
		t.Errorf("backlinks = %q", resultText(r))
	}
}

func TestGetGraph(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_graph", map[string]interface{}{})
	text := resultText(r)
	var graph struct {
		Nodes []struct{ ID string }
		Links []struct{ Source, Target string }
	}
	if err := json.Unmarshal([]byte(text), &graph); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(graph.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(graph.Nodes))
	}
	// sp1→te1, ch1→sp1, te1→sp1 resolve; sp1→gh0 is dropped.
	if len(graph.Links) != 3 {
		t.Errorf("links = %+v, want 3 edges", graph.Links)
	}
	for _, l := range graph.Links {
		if l.Target == "gh0" {
			t.Errorf("dangling edge survived: %+v", l)
		}
	}
}

func TestNoteContract(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{".md", ".org", ":PROPERTIES:", "note:", "[[id:"} {
		if !strings.Contains(text, want) {
			t.Errorf("contract missing %q", want)
		}
	}
}
