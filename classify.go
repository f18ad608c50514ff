package sqlplus

import "strings"

// StatementKind partitions statements by the shape of the report the client
// prints for them: queries produce a tabular report, everything else a single
// status line.
type StatementKind uint

const (
	// Query is any statement containing a SELECT token; its output carries
	// column headers and a dashed separator line.
	Query StatementKind = iota
	// NonQuery is a data-modifying or administrative statement; its output is
	// at most an affected-row status line.
	NonQuery
)

func (k StatementKind) String() string {
	switch k {
	case Query:
		return "query"
	case NonQuery:
		return "non-query"
	default:
		return "unknown"
	}
}

// classify tags statement text as Query or NonQuery. Purely lexical: a
// case-insensitive SELECT token anywhere in the text makes it a Query. The
// kind is re-derived on every execution, never cached.
func classify(text string) StatementKind {
	upper := strings.ToUpper(text)
	for i := 0; ; {
		j := strings.Index(upper[i:], "SELECT")
		if j == -1 {
			return NonQuery
		}
		j += i
		before := j == 0 || !isWordChar(upper[j-1])
		after := j+len("SELECT") == len(upper) || !isWordChar(upper[j+len("SELECT")])
		if before && after {
			return Query
		}
		i = j + len("SELECT")
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
