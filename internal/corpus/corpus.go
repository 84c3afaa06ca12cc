// Package corpus loads every source file under the content root and derives
// the rendered note collection, the folder tree, and the link graph.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/krisyotam/notes.krisyotam.com/internal/models"
	"github.com/krisyotam/notes.krisyotam.com/internal/parser"
	"github.com/krisyotam/notes.krisyotam.com/internal/render"
	"github.com/krisyotam/notes.krisyotam.com/internal/storage"
)

// Service assembles the files under the content root into snapshots.
type Service struct {
	store    storage.Provider
	renderer *render.Renderer
	folders  []string
	logger   *slog.Logger
}

// NewService wires a corpus service. folders is the fixed top-level folder
// set shown in the tree even when empty; an empty slice falls back to
// models.DefaultFolders.
func NewService(store storage.Provider, renderer *render.Renderer, folders []string, logger *slog.Logger) *Service {
	if len(folders) == 0 {
		folders = models.DefaultFolders
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, renderer: renderer, folders: folders, logger: logger}
}

// Snapshot is one immutable build of the corpus. All three views derive from
// the same walk, so they agree on identity, links, and ordering.
type Snapshot struct {
	Notes []*models.Note
	Tree  *models.FolderTree
	Graph *models.GraphData

	byID   map[string]*models.Note
	bySlug map[string]*models.Note
}

// ByID looks up a note by identifier.
func (s *Snapshot) ByID(id string) (*models.Note, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// BySlug looks up a note by slug.
func (s *Snapshot) BySlug(slug string) (*models.Note, bool) {
	n, ok := s.bySlug[slug]
	return n, ok
}

// Lookup resolves a key as a slug first, then as an identifier.
func (s *Snapshot) Lookup(key string) (*models.Note, bool) {
	if n, ok := s.bySlug[key]; ok {
		return n, true
	}
	n, ok := s.byID[key]
	return n, ok
}

// Backlinks returns the identifiers of notes that reference id, in corpus
// order.
func (s *Snapshot) Backlinks(id string) []string {
	var out []string
	for _, n := range s.Notes {
		if n.ID == id {
			continue
		}
		for _, l := range n.Links {
			if l == id {
				out = append(out, n.ID)
				break
			}
		}
	}
	return out
}

// Load walks the root and assembles every eligible file in parallel. Files
// that fail to read or render are logged and skipped; the walk order of the
// survivors is preserved.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	paths, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("corpus: list content root: %w", err)
	}

	results := make([]*models.Note, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			note, err := s.assemble(p)
			if err != nil {
				s.logger.Warn("corpus: file skipped",
					slog.String("path", p),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = note
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	notes := make([]*models.Note, 0, len(results))
	for _, n := range results {
		if n != nil {
			notes = append(notes, n)
		}
	}

	snap := &Snapshot{
		Notes:  notes,
		byID:   make(map[string]*models.Note, len(notes)),
		bySlug: make(map[string]*models.Note, len(notes)),
	}
	// Later files win on identity collisions, in both maps and graph nodes.
	for _, n := range notes {
		snap.byID[n.ID] = n
		snap.bySlug[n.Slug] = n
	}
	snap.Tree = BuildFolderTree(notes, s.folders)
	snap.Graph = BuildGraph(notes)

	s.logger.Info("corpus: loaded",
		slog.Int("files", len(paths)),
		slog.Int("notes", len(notes)),
		slog.Int("links", len(snap.Graph.Links)))
	return snap, nil
}

// assemble builds one Note from a single file.
func (s *Service) assemble(p string) (*models.Note, error) {
	format, ok := models.FormatForPath(p)
	if !ok {
		return nil, fmt.Errorf("corpus: unsupported file: %s", p)
	}
	data, err := s.store.Read(p)
	if err != nil {
		return nil, fmt.Errorf("corpus: read: %w", err)
	}

	slug := strings.TrimSuffix(p, path.Ext(p))
	folder := path.Dir(slug)
	if folder == "." {
		folder = ""
	}
	stem := path.Base(slug)

	var (
		meta    parser.Meta
		body    string
		content string
		links   []string
	)
	switch format {
	case models.FormatMarkdown:
		meta, body = parser.ParseFrontmatter(data)
		links = parser.ExtractLinks(format, body)
		content, err = s.renderer.Render(body)
		if err != nil {
			return nil, err
		}
	case models.FormatOrg:
		meta, body = parser.ParseOrg(data)
		links = parser.ExtractLinks(format, body)
		content, err = s.renderer.Render(parser.NormalizeOrg(body))
		if err != nil {
			return nil, err
		}
	case models.FormatCSV:
		meta = parser.Meta{ID: slug, Title: stem, Tags: []string{models.FlashcardTag}}
		body = string(data)
		content = render.RenderTable(body)
	}

	id := meta.ID
	if id == "" {
		id = slug
	}
	title := meta.Title
	if title == "" {
		title = stem
	}
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	noteType := models.NoteTypeNote
	if format == models.FormatCSV || folder == models.CardsFolder {
		noteType = models.NoteTypeCard
	}

	return &models.Note{
		NoteMetadata: models.NoteMetadata{
			ID:         id,
			Title:      title,
			Slug:       slug,
			Folder:     folder,
			Tags:       tags,
			Status:     meta.Status,
			Certainty:  meta.Certainty,
			Importance: meta.Importance,
			Start:      meta.Start,
			Finish:     meta.Finish,
			Preview:    meta.Preview,
			Links:      links,
			NoteType:   noteType,
		},
		Body:    body,
		Content: content,
	}, nil
}
