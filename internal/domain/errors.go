package domain

import "errors"

var (
	ErrJobNotPending = errors.New("job is not pending")
	ErrUnknownPlan   = errors.New("unknown plan")
)
