package sqlplus

import (
	"errors"
	"sync"
)

// Registry tracks open connections so a top-level driver can release every
// temp file in one sweep when an interrupt arrives mid-statement. It is an
// explicit object with the driver's lifetime, not a process-wide singleton;
// connections register on create (via Options.Registry) and deregister on
// Close.
type Registry struct {
	mu    sync.Mutex
	conns map[*Connection]struct{}
}

func NewRegistry() *Registry {
	return &Registry{conns: map[*Connection]struct{}{}}
}

func (r *Registry) add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c] = struct{}{}
}

func (r *Registry) remove(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c)
}

// Len reports the number of open registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll closes every registered connection, best effort: it keeps going
// past individual failures and returns them joined. Intended for interrupt
// handlers, before the signal is propagated.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	open := make([]*Connection, 0, len(r.conns))
	for c := range r.conns {
		open = append(open, c)
	}
	r.mu.Unlock()

	var errs []error
	for _, c := range open {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
