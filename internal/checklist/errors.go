package checklist

import "errors"

var (
	ErrUnknownStep     = errors.New("unknown checklist step")
	ErrUnknownSubItem  = errors.New("unknown checklist sub-item")
	ErrStepHasSubItems = errors.New("step completion is derived from its sub-items")
	ErrNotNestedList   = errors.New("sub-item does not hold a nested list")
)
