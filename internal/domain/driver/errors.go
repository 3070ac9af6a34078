package driver

import "errors"

var (
	ErrDriverNotFound      = errors.New("driver not found")
	ErrInvalidDriverID     = errors.New("invalid driver id")
	ErrInvalidLocation     = errors.New("invalid driver location")
	ErrInvalidAvailability = errors.New("invalid availability value")
)
