package render

import (
	"html"
	"strings"
)

// Table is a parsed tabular card file: the first line is the header, every
// following non-empty line a row.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseTable splits raw tabular text into header and rows. The dialect is
// deliberately small: cells split on every comma and lose surrounding quotes
// and whitespace. There is no escape syntax, so an embedded comma splits the
// cell.
func ParseTable(raw string) Table {
	var t Table
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCells(line)
		if t.Header == nil {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func splitCells(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `"'`)
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// RenderTable renders a tabular card file as an HTML table with escaped
// cell text.
func RenderTable(raw string) string {
	t := ParseTable(raw)
	var b strings.Builder
	b.WriteString("<table>")
	if len(t.Header) > 0 {
		b.WriteString("<thead><tr>")
		for _, h := range t.Header {
			b.WriteString("<th>")
			b.WriteString(html.EscapeString(h))
			b.WriteString("</th>")
		}
		b.WriteString("</tr></thead>")
	}
	b.WriteString("<tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
