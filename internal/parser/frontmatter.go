// Package parser extracts metadata and link references from the three source
// formats: front-matter Markdown, org outlines, and tabular card files.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Meta is the raw metadata pulled out of a single file, before the assembler
// applies identity and title fallbacks.
type Meta struct {
	ID         string
	Title      string
	Tags       []string
	Status     string
	Certainty  string
	Importance string
	Start      string
	Finish     string
	Preview    string
}

// ParseFrontmatter splits a leading YAML block from a Markdown document and
// maps the recognized keys onto Meta. Missing keys stay zero; a malformed
// block degrades to an empty Meta with the entire input as body.
func ParseFrontmatter(data []byte) (Meta, string) {
	var raw map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &raw)
	if err != nil {
		// Malformed front matter: keep the document readable instead of
		// dropping it.
		return Meta{}, string(data)
	}
	m := Meta{
		ID:         scalarField(raw, "id"),
		Title:      scalarField(raw, "title"),
		Tags:       listField(raw, "tags"),
		Status:     scalarField(raw, "status"),
		Certainty:  scalarField(raw, "certainty"),
		Importance: scalarField(raw, "importance"),
		Start:      scalarField(raw, "start"),
		Finish:     scalarField(raw, "finish"),
		Preview:    scalarField(raw, "preview"),
	}
	return m, string(body)
}

// scalarField reads a front-matter value as a string. Importance and the
// start/finish dates are often typed as numbers or dates in YAML, so any
// scalar is stringified rather than rejected.
func scalarField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// listField reads a front-matter value as a string list. A bare scalar counts
// as a single-element list.
func listField(raw map[string]interface{}, key string) []string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	switch items := v.(type) {
	case []interface{}:
		var out []string
		for _, item := range items {
			if item == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(items)
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return nil
}
