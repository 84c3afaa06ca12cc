// Package models defines the domain types shared across the pipeline.
package models

import (
	"strconv"
	"strings"
)

// NoteType distinguishes regular notes from flashcards.
type NoteType string

const (
	NoteTypeNote NoteType = "note"
	NoteTypeCard NoteType = "card"
)

// CardsFolder is the top-level folder whose notes are treated as flashcards.
const CardsFolder = "cards"

// FlashcardTag is attached to every note synthesized from a tabular card file.
const FlashcardTag = "flashcards"

// DefaultFolders is the fixed top-level folder set that always appears in the
// folder tree, populated or not.
var DefaultFolders = []string{"slipbox", CardsFolder, "reference", "journal"}

// NoteMetadata is the normalized descriptive record of a note, independent of
// the source format it was extracted from.
type NoteMetadata struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Folder     string   `json:"folder"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status,omitempty"`
	Certainty  string   `json:"certainty,omitempty"`
	Importance string   `json:"importance,omitempty"`
	Start      string   `json:"start,omitempty"`
	Finish     string   `json:"finish,omitempty"`
	Preview    string   `json:"preview,omitempty"`
	Links      []string `json:"links,omitempty"`
	NoteType   NoteType `json:"note_type"`
}

// ImportanceValue converts the free-form importance field to an integer,
// falling back to 5 when the field is empty or not numeric.
func (m *NoteMetadata) ImportanceValue() int {
	v, err := strconv.Atoi(strings.TrimSpace(m.Importance))
	if err != nil {
		return 5
	}
	return v
}

// Note is a fully assembled record: metadata plus the raw body and the
// rendered display content.
type Note struct {
	NoteMetadata
	Body    string `json:"body,omitempty"`
	Content string `json:"content"`
}
