package postgres

import "fmt"

// ConnectionError reports that the db-sync database could not be reached or
// refused the session. Op is "connect" or "reconnect".
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("dbsync %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
