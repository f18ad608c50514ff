package sqlplus

import (
	"regexp"
	"strconv"
	"strings"
)

// pageSize is the client's pagination counter threshold. The compiled script
// pins pagesize to this value, and the decoder wraps its own line counter at
// the same point so the repeated per-page header and separator lines are
// consumed instead of decoded as data.
const pageSize = 9999

// connectedMarker is the banner substring the client prints once a connect
// directive succeeds. Everything before it is noise.
const connectedMarker = "Connected"

// completionRE matches the trailing status line the client prints with
// feedback on: "<count> row(s) <verb>", with "no" standing in for zero.
var completionRE = regexp.MustCompile(`^(\d+|no) rows? (selected|created|updated|deleted)\.?$`)

func isErrorLine(line string) bool {
	return strings.HasPrefix(line, "ORA-") || strings.HasPrefix(line, "SP2-")
}

// parseCompletion extracts the affected-row count from a status line. The
// leading token "no" (as in "no rows selected") maps to 0.
func parseCompletion(line string) (int, bool) {
	m := completionRE.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	if m[1] == "no" {
		return 0, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// decode runs the captured output of one subprocess execution through the
// report state machine and produces a Result. It is a pure function of its
// inputs: decoding the same text twice yields identical results.
//
// The machine seeks the connection banner, watches for in-band ORA-/SP2-
// error markers throughout, infers the column layout from the dashed
// separator line that follows a query's header line, and finally pops the
// trailing row-count status line off the data before slicing rows.
func decode(text string, kind StatementKind) *Result {
	res := &Result{Kind: kind, Affected: AffectedUndefined}

	var (
		lay       *layout
		header    string
		haveHdr   bool
		raw       []string
		errLines  []string
		cnt       int
		connected bool
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		// Once an error marker is seen the rest of the output belongs to the
		// message: errors span multiple physical lines.
		if len(errLines) > 0 || isErrorLine(line) {
			errLines = append(errLines, line)
			continue
		}

		if !connected {
			if strings.Contains(line, connectedMarker) {
				connected = true
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		cnt++
		if cnt > pageSize {
			cnt = 1
		}

		if kind == Query {
			switch cnt {
			case 1:
				// Provisional header, held back until the separator line
				// confirms the layout.
				header = line
				haveHdr = true
				continue
			case 2:
				var err error
				lay, err = inferLayout(line)
				if err != nil {
					res.Errored = true
					res.ErrMsg = err.Error()
					return res
				}
				res.Headers, res.Widths = headerNames(lay, header)
				continue
			}
		}
		raw = append(raw, line)
	}

	if len(errLines) > 0 {
		res.Errored = true
		res.ErrMsg = strings.TrimRight(strings.Join(errLines, "\n"), " \t\r\n")
		return res
	}
	if !connected {
		res.Errored = true
		res.ErrMsg = ErrConnectionMarker.Error()
		return res
	}

	// A query that never reached a separator line captured at most the held
	// header line. If that line is a completion message ("no rows selected")
	// the result is legitimately empty; anything else means the report did
	// not have the expected shape.
	if kind == Query && lay == nil {
		if haveHdr {
			if _, ok := parseCompletion(strings.TrimSpace(header)); !ok {
				res.Errored = true
				res.ErrMsg = ErrLayoutInference.Error()
			}
		}
		return res
	}

	// The final raw row may be the feedback status line rather than data.
	if len(raw) > 0 {
		if n, ok := parseCompletion(strings.TrimSpace(raw[len(raw)-1])); ok {
			raw = raw[:len(raw)-1]
			if kind == NonQuery {
				res.Affected = n
			}
		}
	}

	for _, line := range raw {
		if kind == Query {
			fields := lay.slice(line)
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			res.Rows = append(res.Rows, fields)
		} else {
			res.Rows = append(res.Rows, []string{strings.TrimSpace(line)})
		}
	}
	return res
}

// headerNames slices the held header line through the inferred layout to
// produce the ordered, trimmed column names and their byte widths.
func headerNames(lay *layout, header string) ([]string, []int) {
	names := lay.slice(header)
	widths := make([]int, 0, len(names))
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	for _, f := range lay.fields {
		if !f.gap {
			widths = append(widths, f.width)
		}
	}
	return names, widths
}
