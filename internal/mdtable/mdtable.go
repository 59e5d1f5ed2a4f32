// Package mdtable extracts pipe-delimited tables from design documents.
//
// The parser is deliberately permissive: anything that does not look like a
// well-formed table (header row, separator row of dashes/colons/spaces with a
// matching column count, data rows with a matching column count) is skipped so
// that surrounding prose never breaks extraction.
package mdtable

import (
	"regexp"
	"strings"
)

// Table is one extracted pipe table: a header row and its data rows.
// Rows with a column count different from the header, and rows whose cells
// are all empty, are dropped.
type Table struct {
	Header []string
	Rows   [][]string
}

var separatorCell = regexp.MustCompile(`^[-: ]+$`)

// Extract scans text and returns every well-formed pipe table in document
// order. The scan is a plain fold over lines and can be applied to any
// partial document.
func Extract(text string) []Table {
	lines := strings.Split(text, "\n")
	var tables []Table

	i := 0
	for i < len(lines) {
		if !strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "|") {
			i++
			continue
		}
		header := splitRow(lines[i])
		if i+1 >= len(lines) {
			i++
			continue
		}
		sep := lines[i+1]
		if !strings.HasPrefix(strings.TrimLeft(sep, " \t"), "|") {
			i++
			continue
		}
		sepCells := splitRow(sep)
		if len(sepCells) != len(header) || !isSeparator(sepCells) {
			i++
			continue
		}

		i += 2
		var rows [][]string
		for i < len(lines) && strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "|") {
			cells := splitRow(lines[i])
			if len(cells) == len(header) && anyNonEmpty(cells) {
				rows = append(rows, cells)
			}
			i++
		}
		tables = append(tables, Table{Header: header, Rows: rows})
	}

	return tables
}

// FindByHeader returns the first table whose header equals want exactly.
// First-seen precedence resolves duplicate header signatures.
func FindByHeader(tables []Table, want []string) ([][]string, bool) {
	for _, t := range tables {
		if equalHeader(t.Header, want) {
			return t.Rows, true
		}
	}
	return nil, false
}

func splitRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			c = " "
		}
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return true
}

func anyNonEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
