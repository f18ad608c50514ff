package sqlplus

import "strings"

// AffectedUndefined is the affected-row count of a result that carried no
// row-count status line, and of every query result.
const AffectedUndefined = -1

// fieldSep joins a row's fields in the text view.
const fieldSep = "\t"

// Result holds everything decoded from one statement execution. A new
// execution on the same connection replaces the previous Result wholesale.
type Result struct {
	Kind     StatementKind
	Errored  bool
	ErrMsg   string
	Affected int
	Headers  []string
	Widths   []int
	Rows     [][]string

	// views built at most once per result
	records      []map[string]string
	recordsBuilt bool
	text         string
	textBuilt    bool
}

// Records returns the rows as header-keyed maps, building and caching the
// view on first use. Empty, not an error, for zero rows.
func (r *Result) Records() []map[string]string {
	if r.recordsBuilt {
		return r.records
	}
	r.records = make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := map[string]string{}
		for i, field := range row {
			if i < len(r.Headers) {
				rec[r.Headers[i]] = field
			}
		}
		r.records = append(r.records, rec)
	}
	r.recordsBuilt = true
	return r.records
}

// Text returns all rows as a single newline-joined string, fields joined by
// the internal field separator. Cached after the first call.
func (r *Result) Text() string {
	if r.textBuilt {
		return r.text
	}
	lines := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		lines = append(lines, strings.Join(row, fieldSep))
	}
	r.text = strings.Join(lines, "\n")
	r.textBuilt = true
	return r.text
}
