package repository

import (
	"sort"
	"strings"
)

// setClause renders a partial-update field map into an SQL SET fragment
// plus its argument list. Keys are column names controlled by the model
// layer, never raw client input. Columns are emitted in sorted order so
// generated statements are stable.
func setClause(fields map[string]any) (string, []any) {
	cols := make([]string, 0, len(fields))
	for c := range fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	var b strings.Builder
	args := make([]any, 0, len(fields))
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" = ?")
		args = append(args, fields[c])
	}
	return b.String(), args
}

// isDuplicateKey reports whether a MySQL error is a unique-constraint
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
