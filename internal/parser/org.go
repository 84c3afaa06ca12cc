package parser

import (
	"regexp"
	"strings"
)

const (
	drawerStart = ":PROPERTIES:"
	drawerEnd   = ":END:"
)

var drawerKeyRe = regexp.MustCompile(`^:([A-Za-z_]+):\s*(.*)$`)

// ParseOrg reads metadata from an org outline: the :PROPERTIES: drawer and the
// #+title / #+filetags directives. The body starts at the first line that is
// neither drawer, directive, nor blank; a document made of nothing but
// preamble keeps its full text as body.
func ParseOrg(data []byte) (Meta, string) {
	lines := strings.Split(string(data), "\n")

	var m Meta
	inDrawer := false
	bodyStart := 0

scan:
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.EqualFold(trimmed, drawerStart):
			inDrawer = true
		case strings.EqualFold(trimmed, drawerEnd):
			inDrawer = false
		case inDrawer:
			if km := drawerKeyRe.FindStringSubmatch(trimmed); km != nil {
				applyDrawerKey(&m, km[1], km[2])
			}
		case hasDirective(trimmed, "#+title:"):
			m.Title = strings.TrimSpace(trimmed[len("#+title:"):])
		case hasDirective(trimmed, "#+filetags:"):
			m.Tags = splitFiletags(trimmed[len("#+filetags:"):])
		case hasDirective(trimmed, "#+tags:"):
			m.Tags = splitFiletags(trimmed[len("#+tags:"):])
		case strings.HasPrefix(trimmed, "#+"):
			// Other directives carry no metadata we keep.
		case trimmed == "":
			// Blank lines between preamble and body.
		default:
			bodyStart = i
			break scan
		}
	}

	return m, strings.Join(lines[bodyStart:], "\n")
}

// applyDrawerKey maps one drawer property onto Meta. Values are kept verbatim
// apart from surrounding whitespace.
func applyDrawerKey(m *Meta, key, value string) {
	value = strings.TrimSpace(value)
	switch strings.ToUpper(key) {
	case "ID":
		m.ID = value
	case "STATUS":
		m.Status = value
	case "CERTAINTY":
		m.Certainty = value
	case "IMPORTANCE":
		m.Importance = value
	case "START":
		m.Start = value
	case "FINISH":
		m.Finish = value
	case "PREVIEW":
		m.Preview = value
	}
}

func hasDirective(line, prefix string) bool {
	return len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix)
}

// splitFiletags handles the org convention of colon-wrapped tags (:a:b:).
func splitFiletags(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ":") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type orgRule struct {
	re   *regexp.Regexp
	repl string
}

// orgRules transliterates org markup into Markdown line by line. Order
// matters: heading markers go longest first so deep levels are not
// half-converted, and id-targeted links run before the generic bracket form.
var orgRules = []orgRule{
	{regexp.MustCompile(`(?m)^\*\*\*\*\* (.+)$`), "##### $1"},
	{regexp.MustCompile(`(?m)^\*\*\*\* (.+)$`), "#### $1"},
	{regexp.MustCompile(`(?m)^\*\*\* (.+)$`), "### $1"},
	{regexp.MustCompile(`(?m)^\*\* (.+)$`), "## $1"},
	{regexp.MustCompile(`(?m)^\* (.+)$`), "# $1"},
	{regexp.MustCompile(`\*([^\s*](?:[^*\n]*[^\s*])?)\*`), "**$1**"},
	{regexp.MustCompile(`(?m)(^|[^\w/])/([^\s/](?:[^/\n]*[^\s/])?)/`), "$1*$2*"},
	{regexp.MustCompile(`=([^\s=](?:[^=\n]*[^\s=])?)=`), "`$1`"},
	{regexp.MustCompile(`~([^\s~](?:[^~\n]*[^\s~])?)~`), "`$1`"},
	{regexp.MustCompile(`\[\[id:([^\]\[]+)\]\[([^\]\[]+)\]\]`), "[$2](note:$1)"},
	{regexp.MustCompile(`\[\[id:([^\]\[]+)\]\]`), "[$1](note:$1)"},
	{regexp.MustCompile(`\[\[([^\]\[]+)\]\[([^\]\[]+)\]\]`), "[$2]($1)"},
	{regexp.MustCompile(`(?m)^(\s*)\+ `), "$1- "},
	{regexp.MustCompile(`(?mi)^\s*#\+begin_src[ \t]+(\S+).*$`), "```$1"},
	{regexp.MustCompile(`(?mi)^\s*#\+begin_src\s*$`), "```"},
	{regexp.MustCompile(`(?mi)^\s*#\+end_src\s*$`), "```"},
	{regexp.MustCompile(`(?mi)^\s*#\+begin_quote\s*$`), ">"},
	{regexp.MustCompile(`(?mi)^\s*#\+end_quote\s*$`), ""},
}

// NormalizeOrg rewrites an org body into the Markdown dialect the renderer
// understands. The translation is textual: no org AST, just ordered
// substitutions over the whole body, so markup inside source blocks is
// rewritten like everything else.
func NormalizeOrg(body string) string {
	for _, r := range orgRules {
		body = r.re.ReplaceAllString(body, r.repl)
	}
	return body
}
