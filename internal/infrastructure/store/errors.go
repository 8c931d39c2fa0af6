package store

import "fmt"

// AccessError reports a failed read against the record store.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func accessErr(op string, err error) *AccessError {
	return &AccessError{Op: op, Err: err}
}
