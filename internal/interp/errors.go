package interp

import "errors"

// Error classes carried by error lines. None of them is fatal to a session.
var (
	ErrPathNotFound  = errors.New("no such file or directory")
	ErrNotADirectory = errors.New("not a directory")
	ErrReadOnly      = errors.New("read-only file system")
	ErrUnknownTopic  = errors.New("no help available")
)
