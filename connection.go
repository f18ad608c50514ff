package sqlplus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Options configure a Connection. The zero value is usable: system temp
// directory, a warn-level default logger, the sqlplus binary from PATH,
// errors reported through the result rather than raised.
type Options struct {
	// TempDir holds the script and spool files; os.TempDir when empty.
	TempDir string
	// Logger receives structured execution logs. When nil a fresh logrus
	// logger at LogLevel is used.
	Logger logrus.FieldLogger
	// LogLevel applies only to the default logger; a caller-provided Logger
	// keeps its own level.
	LogLevel logrus.Level
	// ConnectAs is an optional privileged role for the connect directive,
	// e.g. "sysdba".
	ConnectAs string
	// RaiseOnError turns a set error flag after execution into an error
	// return from Execute instead of a recoverable result.
	RaiseOnError bool
	// Runner overrides the subprocess boundary; used by tests to feed
	// captured fixtures through the pipeline.
	Runner Runner
	// Registry, when set, tracks the connection for bulk interrupt cleanup.
	Registry *Registry
}

// connSeq disambiguates temp file names between connections of one process.
var connSeq uint64

// Connection is one external-tool session: a connect target, a temp-file
// pair, and the result of the last executed statement. A Connection is not
// safe for concurrent use; callers serialize statements themselves. Distinct
// connections are independent and may run concurrently.
type Connection struct {
	target     string
	opts       Options
	log        logrus.FieldLogger
	runner     Runner
	scriptPath string
	spoolPath  string
	last       *Result
	executed   bool
	closed     bool
}

// Connect creates a session descriptor for the given connect target
// (user/password@service). No subprocess is spawned until the first
// Execute; Connect only claims the temp-file pair.
func Connect(target string, opts *Options) (*Connection, error) {
	c := &Connection{target: target}
	if opts != nil {
		c.opts = *opts
	}

	c.log = c.opts.Logger
	if c.log == nil {
		l := logrus.New()
		if c.opts.LogLevel == 0 {
			l.SetLevel(logrus.WarnLevel)
		} else {
			l.SetLevel(c.opts.LogLevel)
		}
		c.log = l
	}
	c.log = c.log.WithField("target", redactTarget(target))

	c.runner = c.opts.Runner
	if c.runner == nil {
		c.runner = NewRunner("")
	}

	dir := c.opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	stem := fmt.Sprintf("sqlplus_%d_%d", os.Getpid(), atomic.AddUint64(&connSeq, 1))
	c.scriptPath = filepath.Join(dir, stem+".sql")
	c.spoolPath = filepath.Join(dir, stem+".lst")
	for _, p := range []string{c.scriptPath, c.spoolPath} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrTempFile, p, err)
		}
	}

	if c.opts.Registry != nil {
		c.opts.Registry.add(c)
	}
	c.log.Debug("connection created")
	return c, nil
}

func (c *Connection) connectDirective() string {
	if c.opts.ConnectAs != "" {
		return c.target + " as " + c.opts.ConnectAs
	}
	return c.target
}

// Execute runs one statement through the compile, run, decode pipeline and
// returns its affected-row count (AffectedUndefined for queries and for
// statements without a row-count status line). The previous result is
// superseded before the subprocess starts. With RaiseOnError set, a decoded
// error flag becomes an error return.
func (c *Connection) Execute(ctx context.Context, stmt string) (int, error) {
	if c.closed {
		return AffectedUndefined, ErrClosed
	}
	stmt = strings.TrimSpace(stmt)
	kind := classify(stmt)
	c.last = nil
	c.executed = true

	if err := writeScript(stmt, c); err != nil {
		return AffectedUndefined, err
	}
	c.log.WithFields(logrus.Fields{
		"kind":   kind.String(),
		"script": c.scriptPath,
	}).Debug("executing statement")

	if err := c.runner.Run(ctx, c.scriptPath); err != nil {
		return AffectedUndefined, fmt.Errorf("run client: %w", err)
	}
	out, err := os.ReadFile(c.spoolPath)
	if err != nil {
		return AffectedUndefined, fmt.Errorf("%w: %s", ErrSpoolRead, err)
	}

	res := decode(string(out), kind)
	c.last = res
	if res.Errored {
		c.log.WithField("message", res.ErrMsg).Warn("statement failed")
		if c.opts.RaiseOnError {
			return AffectedUndefined, fmt.Errorf("%w: %s", ErrStatement, res.ErrMsg)
		}
		return AffectedUndefined, nil
	}
	c.log.WithFields(logrus.Fields{
		"rows":     len(res.Rows),
		"affected": res.Affected,
	}).Debug("statement decoded")
	return res.Affected, nil
}

// Rows returns the last result's rows as ordered string slices; empty when
// nothing executed, the result errored, or the result had no rows.
func (c *Connection) Rows() [][]string {
	if c.last == nil {
		return nil
	}
	return c.last.Rows
}

// Headers returns the last query result's column names, in report order.
func (c *Connection) Headers() []string {
	if c.last == nil {
		return nil
	}
	return c.last.Headers
}

// Records returns the last result's rows keyed by column header. The view
// is built once per result and cached. Calling Records before any statement
// has ever executed on the connection is an error; afterwards missing data
// degrades to an empty slice.
func (c *Connection) Records() ([]map[string]string, error) {
	if !c.executed {
		return nil, ErrNoStatement
	}
	if c.last == nil {
		return nil, nil
	}
	return c.last.Records(), nil
}

// Text returns the last result's rows as one newline-joined string, cached
// per result.
func (c *Connection) Text() string {
	if c.last == nil {
		return ""
	}
	return c.last.Text()
}

// Errored reports whether the last execution set the error flag.
func (c *Connection) Errored() bool {
	return c.last != nil && c.last.Errored
}

// ErrorMessage returns the accumulated error text of the last execution, or
// the empty string.
func (c *Connection) ErrorMessage() string {
	if c.last == nil {
		return ""
	}
	return c.last.ErrMsg
}

// RowCount returns the last execution's affected-row count, or
// AffectedUndefined.
func (c *Connection) RowCount() int {
	if c.last == nil {
		return AffectedUndefined
	}
	return c.last.Affected
}

// Close removes the temp-file pair and deregisters the connection. Closing
// twice is harmless.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.opts.Registry != nil {
		c.opts.Registry.remove(c)
	}
	var firstErr error
	for _, p := range []string{c.scriptPath, c.spoolPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	c.log.Debug("connection closed")
	return firstErr
}
