package xform

import "errors"

var (
	ErrEmptyString     = errors.New("empty string")
	ErrNotANumber      = errors.New("not a number")
	ErrInvalidBool     = errors.New("invalid boolean")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrBadEmail        = errors.New("invalid email address")
	ErrBadURL          = errors.New("invalid url")
	ErrBadPort         = errors.New("invalid port number")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrBadHostAndPort  = errors.New("invalid host:port")
)
