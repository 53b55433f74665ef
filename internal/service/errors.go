package service

import "errors"

var (
	// ErrSaveFailed is the only persistence error callers see. The change
	// stays in the local state; the cause is logged.
	ErrSaveFailed = errors.New("could not save changes; they are kept locally until the next save")

	// ErrAmbiguousClient indicates a client reference matching more than one client.
	ErrAmbiguousClient = errors.New("client reference is ambiguous")

	// ErrStepLocked indicates a checklist edit on a phase the client cannot access.
	ErrStepLocked = errors.New("checklist step is not unlocked for this client")
)
