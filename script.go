package sqlplus

import (
	"fmt"
	"os"
	"strings"
)

// Formatting directives pinned by the decoder: pagesize must match the
// decoder's pagination counter, and linesize must be wide enough that the
// client never wraps a row, since a wrapped row breaks the fixed-width
// layout.
const lineSize = 8192

// compileScript assembles the text handed to the client binary: spool the
// console to the connection's output file, connect, pin the report format,
// run the statement, exit. A statement terminator is appended only when the
// statement does not already end in one.
func compileScript(stmt string, c *Connection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "spool %s\n", c.spoolPath)
	fmt.Fprintf(&b, "connect %s\n", c.connectDirective())
	fmt.Fprintf(&b, "set pagesize %d\n", pageSize)
	fmt.Fprintf(&b, "set linesize %d\n", lineSize)
	b.WriteString("set heading on\n")
	b.WriteString("set feedback on\n")
	b.WriteString("set verify off\n")
	b.WriteString("set newpage 0\n")
	b.WriteString("set trimspool on\n")
	b.WriteString(stmt)
	if !strings.HasSuffix(stmt, ";") && !strings.HasSuffix(stmt, "/") {
		b.WriteString(";")
	}
	b.WriteString("\nexit\n")
	return b.String()
}

// writeScript overwrites the connection's script file with the compiled
// script for one statement.
func writeScript(stmt string, c *Connection) error {
	script := compileScript(stmt, c)
	if err := os.WriteFile(c.scriptPath, []byte(script), 0o600); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrScriptWrite, c.scriptPath, err)
	}
	return nil
}

// redactTarget hides the password portion of a user/password@service connect
// string. Only the redacted form ever reaches a log sink.
func redactTarget(target string) string {
	slash := strings.Index(target, "/")
	if slash == -1 {
		return target
	}
	rest := target[slash+1:]
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return target[:slash] + "/****"
	}
	return target[:slash] + "/****" + rest[at:]
}
