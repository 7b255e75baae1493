package utils

import "github.com/pkg/errors"

var (
	// ErrTruncatedInput is returned when a read runs past the end of
	// the underlying buffer.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidEncoding is returned when raw name bytes cannot be
	// decoded with the configured charmap.
	ErrInvalidEncoding = errors.New("invalid string encoding")
)
