package parser

import (
	"regexp"
	"strings"

	"github.com/krisyotam/notes.krisyotam.com/internal/models"
)

var (
	// [[id:TARGET]] and [[id:TARGET][desc]] open with the same bracket form.
	orgIDLinkRe = regexp.MustCompile(`\[\[id:([^\]\[]+)\]`)
	// [text](note:TARGET) in front-matter Markdown bodies.
	noteLinkRe = regexp.MustCompile(`\]\(note:([^)\s]+)\)`)
)

// ExtractLinks returns the outbound note references of a body, deduplicated
// in first-occurrence order. Org bodies are scanned in their raw form, before
// any markup normalization; tabular files never carry links.
func ExtractLinks(format models.Format, body string) []string {
	var re *regexp.Regexp
	switch format {
	case models.FormatMarkdown:
		re = noteLinkRe
	case models.FormatOrg:
		re = orgIDLinkRe
	case models.FormatCSV:
		return nil
	default:
		return nil
	}

	matches := re.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
