package api

import (
	"context"

	"github.com/krisyotam/notes.krisyotam.com/internal/apperr"
	"github.com/krisyotam/notes.krisyotam.com/internal/corpus"
	"github.com/krisyotam/notes.krisyotam.com/internal/models"
)

// Service is the read model behind the API: every call resolves the current
// corpus snapshot from the cache and answers from it. Nothing here mutates;
// the corpus changes on disk and reaches the service through invalidation.
type Service struct {
	cache *corpus.Cache
}

// NewService creates a new API service over the snapshot cache.
func NewService(cache *corpus.Cache) *Service {
	return &Service{cache: cache}
}

// NoteDetail is the response payload for a single note: the full note plus
// its resolved backlinks. Links lists every identifier the note references,
// resolvable or not; Backlinks only ever names notes that exist.
type NoteDetail struct {
	models.Note
	Backlinks []string `json:"backlinks"`
}

// ListNotes returns the metadata of every note, optionally filtered by tag.
func (s *Service) ListNotes(ctx context.Context, tag string) ([]models.NoteMetadata, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.NoteMetadata, 0, len(snap.Notes))
	for _, n := range snap.Notes {
		if tag != "" && !hasTag(n.Tags, tag) {
			continue
		}
		items = append(items, n.NoteMetadata)
	}
	return items, nil
}

// GetNote resolves key as a slug first, then as an identifier.
func (s *Service) GetNote(ctx context.Context, key string) (*NoteDetail, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	n, ok := snap.Lookup(key)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &NoteDetail{
		Note:      *n,
		Backlinks: nonNilSlice(snap.Backlinks(n.ID)),
	}, nil
}

// Tree returns the folder hierarchy over the current snapshot.
func (s *Service) Tree(ctx context.Context) (*models.FolderTree, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tree, nil
}

// Graph returns the link graph over the current snapshot.
func (s *Service) Graph(ctx context.Context) (*models.GraphData, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Graph, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
