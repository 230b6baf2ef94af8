package dbsync

import (
	"github.com/jackc/pgx/v5"
)

// RowScanner is the part of pgx.Rows a row decoder needs.
type RowScanner interface {
	Scan(dest ...any) error
}

// Cursor walks the rows of one executed query. Close releases the server
// side result; it is idempotent and safe to defer.
type Cursor struct {
	rows  pgx.Rows
	query string

	// buffered: the first row was fetched by Execute and not yet handed out.
	buffered bool
	done     bool
	closed   bool
}

// Next advances to the next row.
func (c *Cursor) Next() bool {
	if c.closed || c.done {
		return false
	}
	if c.buffered {
		c.buffered = false
		return true
	}
	if !c.rows.Next() {
		c.done = true
		return false
	}
	return true
}

// Scan copies the current row into dest.
func (c *Cursor) Scan(dest ...any) error {
	return c.rows.Scan(dest...)
}

// Err returns the error that stopped iteration, if any.
func (c *Cursor) Err() error {
	if err := c.rows.Err(); err != nil {
		return &QueryError{Query: c.query, Attempts: 1, Err: err}
	}
	return nil
}

func (c *Cursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.rows.Close()
}

// Closed reports whether the cursor has been released.
func (c *Cursor) Closed() bool {
	return c.closed
}

// FetchOne scans the next row into dest. It reports false once the rows are
// exhausted; the cursor stays open.
func (c *Cursor) FetchOne(dest ...any) (bool, error) {
	if !c.Next() {
		return false, c.Err()
	}
	if err := c.Scan(dest...); err != nil {
		return false, err
	}
	return true, nil
}

// FetchAll feeds every remaining row to fn and closes the cursor.
func (c *Cursor) FetchAll(fn func(RowScanner) error) error {
	defer c.Close()

	for c.Next() {
		if err := fn(c.rows); err != nil {
			return err
		}
	}
	return c.Err()
}
