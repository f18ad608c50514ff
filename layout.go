package sqlplus

import "strings"

// layoutField is one slice of a fixed-width report line: either a column
// field or a literal inter-column gap.
type layoutField struct {
	gap   bool
	width int
}

// layout is the column layout inferred from a dashed separator line. The
// widths of its fields always sum to the separator line's length, and every
// data line is treated as exactly that long.
type layout struct {
	fields []layoutField
	length int
}

// inferLayout builds a layout from a separator line: maximal runs of '-' mark
// column extents, runs of whitespace mark gaps. Any other character, or a
// line with no dash run at all, means the line is not a separator.
func inferLayout(sep string) (*layout, error) {
	l := &layout{length: len(sep)}
	dashes := false
	for i := 0; i < len(sep); {
		c := sep[i]
		if c != '-' && c != ' ' && c != '\t' {
			return nil, ErrLayoutInference
		}
		gap := c != '-'
		j := i
		for j < len(sep) && isGapChar(sep[j]) == gap {
			j++
		}
		l.fields = append(l.fields, layoutField{gap: gap, width: j - i})
		if !gap {
			dashes = true
		}
		i = j
	}
	if !dashes {
		return nil, ErrLayoutInference
	}
	return l, nil
}

func isGapChar(c byte) bool {
	return c == ' ' || c == '\t'
}

// slice cuts a report line into one string per column field, dropping the
// gaps. Short lines are right-padded to the layout length first; anything
// past the last boundary of a longer line is discarded, matching the
// client's own trimming.
func (l *layout) slice(line string) []string {
	if len(line) < l.length {
		line += strings.Repeat(" ", l.length-len(line))
	}
	out := make([]string, 0, len(l.fields))
	pos := 0
	for _, f := range l.fields {
		if !f.gap {
			out = append(out, line[pos:pos+f.width])
		}
		pos += f.width
	}
	return out
}

// columns reports the number of non-gap fields.
func (l *layout) columns() int {
	n := 0
	for _, f := range l.fields {
		if !f.gap {
			n++
		}
	}
	return n
}
