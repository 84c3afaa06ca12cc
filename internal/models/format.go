package models

import (
	"path/filepath"
	"strings"
)

// Format identifies one of the supported source formats. Dispatch on Format is
// exhaustive: adding a format means extending the switch in every consumer,
// which the compiler will not do for us, so keep the set here authoritative.
type Format int

const (
	FormatMarkdown Format = iota
	FormatOrg
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatOrg:
		return "org"
	case FormatCSV:
		return "csv"
	}
	return "unknown"
}

// FormatForPath maps a file path to its source format by extension. The second
// return value is false for paths outside the supported set.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return FormatMarkdown, true
	case ".org":
		return FormatOrg, true
	case ".csv":
		return FormatCSV, true
	}
	return 0, false
}
