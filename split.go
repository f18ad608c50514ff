package sqlplus

import (
	"context"
	"strings"
)

// statement delimiters recognized by the splitter. Delimiters inside quoted
// string literals are not respected; a ';' in a literal terminates the
// statement anyway. Known limitation, kept as-is.
func isDelimiter(r rune) bool {
	return r == '/' || r == ';'
}

// clientDirectives are script lines meant for the client itself, not the
// database; the splitter drops them since the compiler emits its own.
var clientDirectives = map[string]struct{}{
	"exit":    {},
	"spool":   {},
	"set":     {},
	"connect": {},
}

func isDirectiveLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, ok := clientDirectives[strings.ToLower(fields[0])]
	return ok
}

// splitScript decomposes multi-statement script text into standalone
// statements, substituting every &name placeholder with its mapped value
// first. Directive lines, blank lines and comment lines are dropped; lines
// containing '/' or ';' are split on every delimiter.
func splitScript(script string, subs map[string]string) []string {
	var (
		statements []string
		acc        []string
	)
	flush := func() {
		stmt := strings.TrimSpace(strings.Join(acc, "\n"))
		if stmt != "" {
			statements = append(statements, stmt)
		}
		acc = acc[:0]
	}

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") || isDirectiveLine(trimmed) {
			continue
		}
		for name, value := range subs {
			line = strings.ReplaceAll(line, "&"+name, value)
		}
		if !strings.ContainsAny(line, "/;") {
			acc = append(acc, line)
			continue
		}
		frags := strings.FieldsFunc(line, isDelimiter)
		terminated := strings.ContainsRune("/;", rune(lastNonSpace(line)))
		switch len(frags) {
		case 0:
			// The line was nothing but delimiters.
			flush()
		case 1:
			acc = append(acc, frags[0])
			if frags[0] != line {
				flush()
			}
		default:
			acc = append(acc, frags[0])
			flush()
			for _, frag := range frags[1 : len(frags)-1] {
				acc = append(acc, frag)
				flush()
			}
			acc = append(acc, frags[len(frags)-1])
			if terminated {
				flush()
			}
		}
	}
	flush()
	return statements
}

func lastNonSpace(line string) byte {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] != ' ' && line[i] != '\t' {
			return line[i]
		}
	}
	return 0
}

// ExecuteScript splits script text into statements and runs each through
// the full pipeline in order. The return value is the affected-row count of
// the last statement only. With RaiseOnError set, the first failing
// statement stops the script.
func (c *Connection) ExecuteScript(ctx context.Context, script string, subs map[string]string) (int, error) {
	affected := AffectedUndefined
	for _, stmt := range splitScript(script, subs) {
		n, err := c.Execute(ctx, stmt)
		if err != nil {
			return AffectedUndefined, err
		}
		affected = n
	}
	return affected, nil
}
