package corpus

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/krisyotam/notes.krisyotam.com/internal/models"
	"github.com/krisyotam/notes.krisyotam.com/internal/render"
	"github.com/krisyotam/notes.krisyotam.com/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(t *testing.T) (string, *Service) {
	t.Helper()
	root, store := testutil.TestRoot(t)
	return root, NewService(store, render.New(), nil, quietLogger())
}

func TestLoad_AssemblesAllFormats(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "slipbox/spacing.md",
		"---\nid: sp1\ntitle: Spacing\ntags: [memory]\n---\nSee [effect](note:te1).\n")
	testutil.WriteFile(t, root, "reference/testing.org",
		":PROPERTIES:\n:ID: te1\n:END:\n#+title: Testing effect\n\nBody with [[id:sp1][spacing]].\n")
	testutil.WriteFile(t, root, "cards/arith.csv", "front,back\n2+2,4\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Notes) != 3 {
		t.Fatalf("notes = %d, want 3", len(snap.Notes))
	}

	md, ok := snap.ByID("sp1")
	if !ok {
		t.Fatal("markdown note missing")
	}
	if md.Slug != "slipbox/spacing" || md.Folder != "slipbox" {
		t.Errorf("slug = %q, folder = %q", md.Slug, md.Folder)
	}
	if md.NoteType != models.NoteTypeNote {
		t.Errorf("note_type = %q, want note", md.NoteType)
	}
	if len(md.Links) != 1 || md.Links[0] != "te1" {
		t.Errorf("links = %v, want [te1]", md.Links)
	}
	if !strings.Contains(md.Content, `<a href="note:te1">effect</a>`) {
		t.Errorf("content = %q", md.Content)
	}

	org, ok := snap.ByID("te1")
	if !ok {
		t.Fatal("org note missing")
	}
	if org.Title != "Testing effect" {
		t.Errorf("title = %q", org.Title)
	}
	if len(org.Links) != 1 || org.Links[0] != "sp1" {
		t.Errorf("links = %v, want [sp1]", org.Links)
	}
	if !strings.Contains(org.Content, `<a href="note:sp1">spacing</a>`) {
		t.Errorf("content = %q", org.Content)
	}

	card, ok := snap.BySlug("cards/arith")
	if !ok {
		t.Fatal("card missing")
	}
	if card.NoteType != models.NoteTypeCard {
		t.Errorf("note_type = %q, want card", card.NoteType)
	}
	if card.ID != "cards/arith" || card.Title != "arith" {
		t.Errorf("id = %q, title = %q", card.ID, card.Title)
	}
	if len(card.Tags) != 1 || card.Tags[0] != models.FlashcardTag {
		t.Errorf("tags = %v", card.Tags)
	}
	if !strings.Contains(card.Content, "<td>4</td>") {
		t.Errorf("content = %q", card.Content)
	}
}

func TestLoad_FallbacksForBareFiles(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "journal/2024-01-01.md", "Plain text, no front matter.\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.BySlug("journal/2024-01-01")
	if !ok {
		t.Fatal("note missing")
	}
	if n.ID != "journal/2024-01-01" {
		t.Errorf("id = %q, want slug fallback", n.ID)
	}
	if n.Title != "2024-01-01" {
		t.Errorf("title = %q, want filename stem", n.Title)
	}
	if n.Tags == nil || len(n.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", n.Tags)
	}
}

func TestLoad_SlugKeepsSpaces(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "slipbox/foo bar.md", "---\ntitle: Foo Bar\n---\nx\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.BySlug("slipbox/foo bar")
	if !ok {
		t.Fatal("note missing under spaced slug")
	}
	if n.Folder != "slipbox" {
		t.Errorf("folder = %q, want slipbox", n.Folder)
	}
}

func TestLoad_OrgWithoutPreamble(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "reference/plain.org", "Just a body line.\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.BySlug("reference/plain")
	if !ok {
		t.Fatal("note missing")
	}
	if n.Title != "plain" {
		t.Errorf("title = %q, want filename stem", n.Title)
	}
	if n.Tags == nil || len(n.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", n.Tags)
	}
	if n.Body != "Just a body line.\n" {
		t.Errorf("body = %q", n.Body)
	}
}

func TestLoad_RootLevelFileHasEmptyFolder(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "inbox.md", "capture\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.BySlug("inbox")
	if !ok {
		t.Fatal("note missing")
	}
	if n.Folder != "" {
		t.Errorf("folder = %q, want empty", n.Folder)
	}
	if len(snap.Tree.Notes) != 1 || snap.Tree.Notes[0].Slug != "inbox" {
		t.Errorf("root notes = %v", snap.Tree.Notes)
	}
}

func TestLoad_MarkdownInCardsFolderIsCard(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "cards/mnemonics.md", "---\ntitle: Mnemonics\n---\nx\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.BySlug("cards/mnemonics")
	if !ok {
		t.Fatal("note missing")
	}
	if n.NoteType != models.NoteTypeCard {
		t.Errorf("note_type = %q, want card", n.NoteType)
	}
}

func TestLoad_DuplicateIDLastWins(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "a.md", "---\nid: dup\ntitle: First\n---\nx\n")
	testutil.WriteFile(t, root, "z.md", "---\nid: dup\ntitle: Second\n---\nx\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, ok := snap.ByID("dup")
	if !ok {
		t.Fatal("note missing")
	}
	if n.Title != "Second" {
		t.Errorf("title = %q, want later file to win", n.Title)
	}
	// Both files stay reachable by slug.
	if _, ok := snap.BySlug("a"); !ok {
		t.Error("slug a missing")
	}
	if _, ok := snap.BySlug("z"); !ok {
		t.Error("slug z missing")
	}
}

func TestLoad_EmptyRoot(t *testing.T) {
	_, svc := testService(t)

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Notes) != 0 {
		t.Errorf("notes = %d, want 0", len(snap.Notes))
	}
	if len(snap.Tree.Children) != len(models.DefaultFolders) {
		t.Errorf("children = %d, want %d", len(snap.Tree.Children), len(models.DefaultFolders))
	}
	if snap.Graph == nil || snap.Graph.Nodes == nil || snap.Graph.Links == nil {
		t.Error("graph views must be non-nil")
	}
}

func TestSnapshot_Backlinks(t *testing.T) {
	root, svc := testService(t)
	testutil.WriteFile(t, root, "a.md", "---\nid: a\n---\n[b](note:b)\n")
	testutil.WriteFile(t, root, "b.md", "---\nid: b\n---\nno links\n")
	testutil.WriteFile(t, root, "c.md", "---\nid: c\n---\n[b](note:b) and [a](note:a)\n")

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bl := snap.Backlinks("b")
	if len(bl) != 2 || bl[0] != "a" || bl[1] != "c" {
		t.Errorf("backlinks = %v, want [a c]", bl)
	}
	if got := snap.Backlinks("a"); len(got) != 1 || got[0] != "c" {
		t.Errorf("backlinks = %v, want [c]", got)
	}
}
