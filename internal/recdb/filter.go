package recdb

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Filter describes the declarative selection criteria for re-queue
// candidates. The zero value selects every failed recording.
type Filter struct {
	// Titles match either the series title or the item name, case
	// insensitively. Empty means any title.
	Titles []string
	// IncludePartial widens the status predicate from failed-only to
	// failed-or-partial.
	IncludePartial bool
	// MoviesOnly restricts to rows without season/episode numbering.
	MoviesOnly bool
	// Since is an inclusive lower bound on the Updated column.
	Since *time.Time
}

// titleFolder performs Unicode case folding on user-supplied titles before
// they are bound as parameters, matching SQLite's ASCII lower() for plain
// text while handling non-ASCII titles consistently on the Go side.
var titleFolder = cases.Fold()

// Statuses returns the status set the filter selects: always failed,
// plus partial when requested.
func (f Filter) Statuses() []Status {
	statuses := []Status{StatusFailed}
	if f.IncludePartial {
		statuses = append(statuses, StatusPartial)
	}
	return statuses
}

// Where builds the parameterized WHERE fragment and its bound arguments.
// User-supplied values are only ever bound as parameters; they never become
// part of the query text.
func (f Filter) Where() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	statuses := f.Statuses()
	clauses = append(clauses, "Status IN ("+placeholders(len(statuses))+")")
	for _, status := range statuses {
		args = append(args, int(status))
	}

	if len(f.Titles) > 0 {
		parts := make([]string, 0, len(f.Titles))
		for _, title := range f.Titles {
			parts = append(parts, "(lower(SeriesTitle) = ? OR lower(Name) = ?)")
			folded := titleFolder.String(strings.TrimSpace(title))
			args = append(args, folded, folded)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if f.MoviesOnly {
		clauses = append(clauses, "Season IS NULL AND EpisodeNumber IS NULL")
	}

	if f.Since != nil {
		clauses = append(clauses, "Updated >= ?")
		args = append(args, f.Since.UTC().Format(TimeFormat))
	}

	return strings.Join(clauses, " AND "), args
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	out := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

// InterpolateSQL substitutes bound arguments into a query's placeholders for
// log output. The result is never executed; execution always uses the
// parameterized form.
func InterpolateSQL(query string, args []any) string {
	parts := strings.Split(query, "?")
	var b strings.Builder
	b.WriteString(parts[0])
	for i, part := range parts[1:] {
		if i < len(args) {
			switch v := args[i].(type) {
			case string:
				b.WriteString("'" + strings.ReplaceAll(v, "'", "''") + "'")
			default:
				fmt.Fprintf(&b, "%v", v)
			}
		} else {
			b.WriteByte('?')
		}
		b.WriteString(part)
	}
	return b.String()
}
