package sqlplus

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
)

// Rows adapts one decoded query result for database/sql. All values are the
// trimmed strings the report carried; the report format has no type
// information to recover.
type Rows struct {
	headers []string
	index   int
	rows    [][]string
}

func (r *Rows) Columns() []string {
	return append([]string{}, r.headers...)
}

func (r *Rows) Close() error {
	r.index = len(r.rows)
	return nil
}

func (r *Rows) Next(dest []driver.Value) error {
	if r.index >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.index]
	for i := range dest {
		if i < len(row) {
			dest[i] = row[i]
		} else {
			dest[i] = nil
		}
	}
	r.index++
	return nil
}

// Conn wraps a Connection behind driver.Conn so callers can use the
// standard database/sql surface over the subprocess pipeline.
type Conn struct {
	conn *Connection
}

func (dc *Conn) Query(query string, args []driver.Value) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, ErrBindNotSupported
	}
	if _, err := dc.conn.Execute(context.Background(), query); err != nil {
		return nil, err
	}
	if dc.conn.Errored() {
		return nil, fmt.Errorf("%w: %s", ErrStatement, dc.conn.ErrorMessage())
	}
	return &Rows{headers: dc.conn.Headers(), rows: dc.conn.Rows()}, nil
}

func (dc *Conn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, ErrBindNotSupported
	}
	affected, err := dc.conn.Execute(context.Background(), query)
	if err != nil {
		return nil, err
	}
	if dc.conn.Errored() {
		return nil, fmt.Errorf("%w: %s", ErrStatement, dc.conn.ErrorMessage())
	}
	if affected == AffectedUndefined {
		affected = 0
	}
	return execResult(affected), nil
}

func (dc *Conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{conn: dc, query: query}, nil
}

func (dc *Conn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("transactions are not supported")
}

func (dc *Conn) Close() error {
	return dc.conn.Close()
}

// stmt runs its text verbatim on execution; the report protocol has no
// bind-variable channel, so statements with placeholders are rejected.
type stmt struct {
	conn  *Conn
	query string
}

func (s *stmt) NumInput() int { return 0 }

func (s *stmt) Close() error { return nil }

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.conn.Query(s.query, args)
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.conn.Exec(s.query, args)
}

type execResult int

func (r execResult) LastInsertId() (int64, error) {
	return 0, fmt.Errorf("last insert id is not reported")
}

func (r execResult) RowsAffected() (int64, error) {
	return int64(r), nil
}

// Driver opens connections from a user/password@service data source name.
type Driver struct{}

func (d *Driver) Open(name string) (driver.Conn, error) {
	conn, err := Connect(name, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn}, nil
}

func init() {
	sql.Register("sqlplus", &Driver{})
}
