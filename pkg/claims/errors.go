package claims

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported claims file format")
	ErrInvalidRecord     = errors.New("invalid claim record")
)
