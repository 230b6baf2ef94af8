package dbsync

import "iter"

// Rows is a lazy, single-pass sequence of row records. Each Next pulls one
// row from the underlying cursor; nothing is buffered beyond that. The cursor
// is released when the rows run out, when a row fails to decode and on Close.
// It holds the Service's only connection until then, so finish one Rows
// before opening the next.
//
//	rows, err := svc.QueryTxStakeDeleg(ctx, hash)
//	if err != nil { ... }
//	defer rows.Close()
//	for rows.Next() {
//		deleg := rows.Row()
//	}
//	if err := rows.Err(); err != nil { ... }
type Rows[T any] struct {
	cur  *Cursor
	scan func(RowScanner) (T, error)
	row  T
	err  error
}

func newRows[T any](cur *Cursor, scan func(RowScanner) (T, error)) *Rows[T] {
	return &Rows[T]{cur: cur, scan: scan}
}

// Next decodes the next row. It returns false at the end of the rows or on
// error; check Err afterwards.
func (r *Rows[T]) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.cur.Next() {
		r.err = r.cur.Err()
		r.cur.Close()
		return false
	}

	row, err := r.scan(r.cur)
	if err != nil {
		r.err = err
		r.cur.Close()
		return false
	}
	r.row = row
	return true
}

// Row returns the row decoded by the last successful Next.
func (r *Rows[T]) Row() T {
	return r.row
}

func (r *Rows[T]) Err() error {
	return r.err
}

// Close releases the cursor. Abandoning a sequence half way requires it.
func (r *Rows[T]) Close() {
	r.cur.Close()
}

// All adapts the rows to a range-over-func loop. Leaving the loop early
// closes the rows; a failure is yielded once as the last element.
func (r *Rows[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer r.Close()
		for r.Next() {
			if !yield(r.row, nil) {
				return
			}
		}
		if r.err != nil {
			var zero T
			yield(zero, r.err)
		}
	}
}

// Collect drains the rows into a slice. Meant for small result sets.
func (r *Rows[T]) Collect() ([]T, error) {
	defer r.Close()

	var out []T
	for r.Next() {
		out = append(out, r.row)
	}
	return out, r.err
}

// EachN hands at most n rows to fn as they are read, then closes the cursor.
// A non-positive n reads everything. An error from fn stops the iteration and
// is returned unchanged.
func (r *Rows[T]) EachN(n int, fn func(T) error) error {
	defer r.Close()

	for seen := 0; (n <= 0 || seen < n) && r.Next(); seen++ {
		if err := fn(r.row); err != nil {
			return err
		}
	}
	return r.err
}

// CollectN drains at most n rows and closes the cursor, leaving the rest of
// the result unread. A non-positive n reads everything.
func (r *Rows[T]) CollectN(n int) ([]T, error) {
	if n <= 0 {
		return r.Collect()
	}
	defer r.Close()

	out := make([]T, 0, min(n, 64))
	for len(out) < n && r.Next() {
		out = append(out, r.row)
	}
	return out, r.err
}
