package utils

import (
	"bytes"
	"fmt"

	"golang.org/x/text/transform"

	"github.com/pkg/errors"

	"github.com/drevan/d3utils/config"
)

// DecodeString decodes a NUL-padded byte field using the configured
// charmap. Bytes after the first NUL are padding and ignored.
func DecodeString(bs []byte) (string, error) {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		return "", errors.Wrapf(ErrInvalidEncoding, "%v", err)
	}

	return string(s), nil
}

// EncodeString encodes s with the configured charmap, optionally
// appending a NUL terminator.
func EncodeString(s string, nulTerminate bool) ([]byte, error) {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidEncoding, "%v", err)
	}
	if nulTerminate {
		bs = append(bs, 0)
	}
	return bs, nil
}

// EncodeStringBuffer encodes s into a fixed-width NUL-padded field of
// bufSize bytes. The encoded string must fit in the field.
func EncodeStringBuffer(s string, bufSize int) ([]byte, error) {
	bs, err := EncodeString(s, false)
	if err != nil {
		return nil, err
	}
	if len(bs) > bufSize {
		return nil, errors.Errorf("string %q does not fit in %d bytes field", s, bufSize)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	return r, nil
}

// FormatSize renders a byte count for listings.
func FormatSize(numBytes int64) string {
	v := float64(numBytes)
	for _, unit := range []string{"B", "KiB", "MiB", "GiB"} {
		if v <= 1024 {
			return fmt.Sprintf("%.2f%s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2fTiB", v)
}
