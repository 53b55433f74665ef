package repository

import "errors"

// ErrNotFound is returned when no client exists for the requested id.
var ErrNotFound = errors.New("not found")

// ErrUnreadableDocument is returned when a write would replace a stored
// billing or checklist value that could not be read back.
var ErrUnreadableDocument = errors.New("stored document could not be read; refusing to overwrite it")

// ErrConcurrentUpdate is returned when the stored value changed between the
// read check and the write.
var ErrConcurrentUpdate = errors.New("client changed during update")
