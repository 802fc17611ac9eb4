package postgres

import "strings"

// likeEscaper neutralizes LIKE metacharacters in user-derived input so that
// ILIKE patterns always match the input literally. Backslash is doubled
// first; it is the default ESCAPE character in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
