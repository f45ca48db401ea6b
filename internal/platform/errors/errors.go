package apperrors

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidZone      = errors.New("invalid zone")
	ErrNoNeutralZone    = errors.New("no neutral zone configured")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCommandFailed    = errors.New("command failed")
	ErrCommanderTimeout = errors.New("commander timed out")
	ErrFeedUnavailable  = errors.New("motion feed unavailable")
	ErrNoSample         = errors.New("no motion sample yet")
)
