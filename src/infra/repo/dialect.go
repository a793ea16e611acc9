package repo

import (
	"strconv"
	"strings"
)

// Dialect selects the placeholder syntax sent to the driver.
// Statements are always built with "?" and rebound on execution.
type Dialect int

const (
	// Question keeps "?" placeholders (SQLite, MySQL).
	Question Dialect = iota

	// Dollar numbers placeholders as $1, $2, ... (PostgreSQL).
	Dollar
)

func (d Dialect) String() string {
	switch d {
	case Question:
		return "question"
	case Dollar:
		return "dollar"
	default:
		return "dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// Rebind rewrites "?" placeholders for the dialect. Question marks inside
// single-quoted literals, double-quoted identifiers and "--" line comments
// are left alone. Any other "?" is a placeholder, so PostgreSQL's jsonb "?"
// operators cannot appear in a Filter condition; use jsonb_exists instead.
func (d Dialect) Rebind(query string) string {
	if d != Dollar || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote byte
	comment := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case comment:
			if c == '\n' {
				comment = false
			}
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			comment = true
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
