package render

import (
	"strings"
	"testing"
)

func TestParseTable_QuotesAndSpaces(t *testing.T) {
	tab := ParseTable("front,back\n\n\"What is 2+2?\", 4\n' spaced ', x\n")
	if len(tab.Header) != 2 || tab.Header[0] != "front" || tab.Header[1] != "back" {
		t.Fatalf("header = %v", tab.Header)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Rows))
	}
	if tab.Rows[0][0] != "What is 2+2?" || tab.Rows[0][1] != "4" {
		t.Errorf("row 0 = %v", tab.Rows[0])
	}
	if tab.Rows[1][0] != "spaced" {
		t.Errorf("row 1 = %v", tab.Rows[1])
	}
}

func TestParseTable_EmbeddedCommaSplits(t *testing.T) {
	tab := ParseTable("q,a\n\"one, two\",3\n")
	// No escape syntax: the quoted comma still splits the cell.
	if len(tab.Rows) != 1 || len(tab.Rows[0]) != 3 {
		t.Fatalf("rows = %v", tab.Rows)
	}
	if tab.Rows[0][0] != "one" || tab.Rows[0][1] != "two" || tab.Rows[0][2] != "3" {
		t.Errorf("row = %v", tab.Rows[0])
	}
}

func TestRenderTable_EscapesCells(t *testing.T) {
	out := RenderTable("h<1>,b\nx&y,z\n")
	if !strings.Contains(out, "<th>h&lt;1&gt;</th>") {
		t.Errorf("header not escaped: %q", out)
	}
	if !strings.Contains(out, "<td>x&amp;y</td>") {
		t.Errorf("cell not escaped: %q", out)
	}
}

func TestRenderTable_EmptyInput(t *testing.T) {
	out := RenderTable("")
	if out != "<table><tbody></tbody></table>" {
		t.Errorf("out = %q", out)
	}
}
