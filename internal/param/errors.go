package param

import "errors"

var (
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrGroupNotFound      = errors.New("group has no parameters")
	ErrParameterNotFound  = errors.New("parameter not found")
	ErrParameterReleased  = errors.New("parameter released")
	ErrKindMismatch       = errors.New("value kind mismatch")
	ErrInvalidBounds      = errors.New("invalid parameter bounds")
	ErrNotFinite          = errors.New("value is not a finite number")
)
