package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected means the server answered with a non-2xx status other
	// than 401.
	ErrRejected = errors.New("request rejected")
)
