package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrEncode       = errors.New("encode document failed")
	ErrInvalidRoute = errors.New("invalid api route")
)
