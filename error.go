package sqlplus

import "errors"

var (
	// ErrConnectionMarker is returned when the captured output never contains
	// the "Connected" banner the client prints after a successful connect.
	ErrConnectionMarker = errors.New("cannot find connection marker in output")
	// ErrLayoutInference is returned when a query result never produced a
	// recognizable column separator line.
	ErrLayoutInference = errors.New("no column separator line in query output")
	// ErrNoStatement is returned by accessors used before any statement has
	// executed on the connection.
	ErrNoStatement      = errors.New("no statement has been executed")
	ErrScriptWrite      = errors.New("cannot write script file")
	ErrTempFile         = errors.New("cannot create temp file")
	ErrSpoolRead        = errors.New("cannot read spool file")
	ErrClosed           = errors.New("connection is closed")
	ErrStatement        = errors.New("statement failed")
	ErrBindNotSupported = errors.New("bind parameters are not supported")
)
