package sqlplus

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuery(t *testing.T) {
	out := "Connected.\nNAME\n----\nfoo\n\n1 row selected.\n"

	res := decode(out, Query)
	assert.False(t, res.Errored)
	assert.Equal(t, "", res.ErrMsg)
	assert.Equal(t, []string{"NAME"}, res.Headers)
	assert.Equal(t, []int{4}, res.Widths)
	assert.Equal(t, [][]string{{"foo"}}, res.Rows)
	// the selected-count path never defines the count for a query
	assert.Equal(t, AffectedUndefined, res.Affected)
}

func TestDecodeQueryMultiColumn(t *testing.T) {
	out := strings.Join([]string{
		"SQL*Plus: Release 19.0.0.0.0",
		"",
		"Connected to:",
		"Oracle Database 19c",
		"",
		"EMPNO ENAME      JOB",
		"----- ---------- ---------",
		" 7369 SMITH      CLERK",
		" 7499 ALLEN      SALESMAN",
		" 7521 WARD",
		"",
		"3 rows selected.",
		"",
	}, "\n")

	res := decode(out, Query)
	require.False(t, res.Errored, res.ErrMsg)
	assert.Equal(t, []string{"EMPNO", "ENAME", "JOB"}, res.Headers)
	assert.Equal(t, []int{5, 10, 9}, res.Widths)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"7369", "SMITH", "CLERK"}, res.Rows[0])
	assert.Equal(t, []string{"7499", "ALLEN", "SALESMAN"}, res.Rows[1])
	// ragged short line is padded out to the separator length
	assert.Equal(t, []string{"7521", "WARD", ""}, res.Rows[2])

	// every decoded row has exactly one field per header
	for _, row := range res.Rows {
		assert.Len(t, row, len(res.Headers))
	}
}

func TestDecodeErrorBeforeBanner(t *testing.T) {
	out := "ORA-00942: table or view does not exist\n"

	res := decode(out, Query)
	assert.True(t, res.Errored)
	assert.Contains(t, res.ErrMsg, "ORA-00942: table or view does not exist")
	assert.Len(t, res.Rows, 0)
	assert.Equal(t, AffectedUndefined, res.Affected)
}

func TestDecodeErrorAfterData(t *testing.T) {
	out := strings.Join([]string{
		"Connected.",
		"NAME",
		"----",
		"foo",
		"ORA-01555: snapshot too old",
		"ORA-06512: at line 3",
		"",
	}, "\n")

	res := decode(out, Query)
	assert.True(t, res.Errored)
	assert.Contains(t, res.ErrMsg, "ORA-01555: snapshot too old")
	assert.Contains(t, res.ErrMsg, "ORA-06512: at line 3")
	// no partially decoded data escapes an errored result
	assert.Len(t, res.Rows, 0)
}

func TestDecodeErrorSpansLines(t *testing.T) {
	out := strings.Join([]string{
		"Connected.",
		"SP2-0734: unknown command beginning \"frobnicate\" -",
		"rest of line ignored.",
		"",
	}, "\n")

	res := decode(out, NonQuery)
	assert.True(t, res.Errored)
	assert.Contains(t, res.ErrMsg, "SP2-0734")
	assert.Contains(t, res.ErrMsg, "rest of line ignored.")
}

func TestDecodeMissingBanner(t *testing.T) {
	res := decode("SQL*Plus: Release 19.0.0.0.0\n\n", Query)
	assert.True(t, res.Errored)
	assert.Equal(t, ErrConnectionMarker.Error(), res.ErrMsg)

	res = decode("", NonQuery)
	assert.True(t, res.Errored)
	assert.Equal(t, ErrConnectionMarker.Error(), res.ErrMsg)
}

func TestDecodeNonQuery(t *testing.T) {
	tests := []struct {
		out      string
		affected int
		rows     int
	}{
		{
			out:      "Connected.\n\n3 rows updated.\n",
			affected: 3,
			rows:     0,
		},
		{
			out:      "Connected.\n\n1 row created.\n",
			affected: 1,
			rows:     0,
		},
		{
			out:      "Connected.\n\n12 rows deleted.\n",
			affected: 12,
			rows:     0,
		},
		{
			// "no" maps to 0, never undefined
			out:      "Connected.\n\nno rows selected\n",
			affected: 0,
			rows:     0,
		},
		{
			// no recognizable status line leaves the count undefined
			out:      "Connected.\n\nTable created.\n",
			affected: AffectedUndefined,
			rows:     1,
		},
	}

	for _, test := range tests {
		res := decode(test.out, NonQuery)
		assert.False(t, res.Errored, test.out)
		assert.Equal(t, test.affected, res.Affected, test.out)
		assert.Len(t, res.Rows, test.rows, test.out)
	}
}

func TestDecodeNonQueryKeepsLinesWhole(t *testing.T) {
	out := "Connected.\n  Grant succeeded.  \n2 rows updated.\n"

	res := decode(out, NonQuery)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Grant succeeded."}, res.Rows[0])
	assert.Equal(t, 2, res.Affected)
	assert.Empty(t, res.Headers)
}

func TestDecodeQueryNoSeparator(t *testing.T) {
	// a lone completion message is a legitimately empty result
	res := decode("Connected.\n\nno rows selected\n", Query)
	assert.False(t, res.Errored)
	assert.Len(t, res.Rows, 0)
	assert.Equal(t, AffectedUndefined, res.Affected)

	// anything else means the report did not have the expected shape
	res = decode("Connected.\nsomething unexpected\n", Query)
	assert.True(t, res.Errored)
	assert.Equal(t, ErrLayoutInference.Error(), res.ErrMsg)

	// a second line that is not dashes and whitespace fails the same way
	res = decode("Connected.\nNAME\nfoo\n", Query)
	assert.True(t, res.Errored)
	assert.Equal(t, ErrLayoutInference.Error(), res.ErrMsg)
}

func TestDecodeIdempotent(t *testing.T) {
	out := strings.Join([]string{
		"Connected.",
		"ID NAME",
		"-- ----",
		" 1 foo",
		" 2 bar",
		"",
		"2 rows selected.",
	}, "\n")

	first := decode(out, Query)
	second := decode(out, Query)
	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Affected, second.Affected)
	assert.Equal(t, first.Errored, second.Errored)
}

func TestDecodePaginationWrap(t *testing.T) {
	// pagesize counts the two heading lines, so one page carries
	// pageSize - 2 data rows before the heading repeats
	perPage := pageSize - 2

	var b strings.Builder
	b.WriteString("Connected.\n")
	b.WriteString("ID\n")
	b.WriteString("--\n")
	for i := 0; i < perPage; i++ {
		fmt.Fprintf(&b, "%2d\n", i%99)
	}
	b.WriteString("ID\n")
	b.WriteString("--\n")
	b.WriteString("42\n")
	fmt.Fprintf(&b, "\n%d rows selected.\n", perPage+1)

	res := decode(b.String(), Query)
	require.False(t, res.Errored, res.ErrMsg)
	assert.Equal(t, []string{"ID"}, res.Headers)
	// the repeated per-page heading is consumed, not decoded as data
	assert.Len(t, res.Rows, perPage+1)
	assert.Equal(t, []string{"42"}, res.Rows[perPage])
	for _, row := range res.Rows {
		assert.NotEqual(t, []string{"--"}, row)
	}
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		line  string
		count int
		ok    bool
	}{
		{line: "1 row selected.", count: 1, ok: true},
		{line: "3 rows updated.", count: 3, ok: true},
		{line: "12 rows deleted.", count: 12, ok: true},
		{line: "1 row created.", count: 1, ok: true},
		{line: "no rows selected", count: 0, ok: true},
		{line: "Table created.", ok: false},
		{line: "Grant succeeded.", ok: false},
		{line: "5 rows frobnicated.", ok: false},
		{line: "rows selected.", ok: false},
	}

	for _, test := range tests {
		n, ok := parseCompletion(test.line)
		assert.Equal(t, test.ok, ok, test.line)
		if test.ok {
			assert.Equal(t, test.count, n, test.line)
		}
	}
}
