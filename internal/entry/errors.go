package entry

import "errors"

// Error variables for parsing user and file input into model values.
var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidRatingScale = errors.New("invalid rating scale")
	ErrInvalidDate        = errors.New("invalid date")
)
