package billing

import "errors"

var (
	// ErrToolOnlyFrozen indicates a month mutation on a tier in tool-only mode.
	ErrToolOnlyFrozen = errors.New("tier is in tool-only mode")

	// ErrUnknownTier indicates a tier outside the fixed consulting/mentorship/follow-up set.
	ErrUnknownTier = errors.New("unknown billing tier")

	// ErrTierNotStarted indicates a month or freeze operation on a recurring
	// tier the client has no billing for.
	ErrTierNotStarted = errors.New("billing tier not started")

	// ErrMonthOutOfRange indicates a month index past the normalized month list.
	ErrMonthOutOfRange = errors.New("month index out of range")

	// ErrInvalidDraftValue indicates a consulting draft value that failed to parse.
	ErrInvalidDraftValue = errors.New("invalid draft value")

	// ErrUnknownPlan indicates a mentorship plan id outside the fixed plan set.
	ErrUnknownPlan = errors.New("unknown subscription plan")

	// ErrPartNotApplicable indicates a part-2 toggle on a fee billed as a single tranche.
	ErrPartNotApplicable = errors.New("payment part not applicable")
)
