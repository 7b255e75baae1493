package utils

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Cursor is a forward-only read position over a byte buffer. All
// integers are little-endian. Reads never seek backward; a read past
// the end of the buffer fails with ErrTruncatedInput and leaves the
// position unchanged.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative read size %d", n)
	}
	if c.Remaining() < n {
		return nil, errors.Wrapf(ErrTruncatedInput, "need %d bytes at offset 0x%x, have %d", n, c.pos, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	_, err := c.ReadBytes(n)
	return err
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadFixedString reads an n bytes NUL-padded name field and decodes
// it with the configured charmap.
func (c *Cursor) ReadFixedString(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return DecodeString(b)
}

// ReadCString reads bytes up to (and consuming) the next NUL.
func (c *Cursor) ReadCString() (string, error) {
	rest := c.buf[c.pos:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", errors.Wrapf(ErrTruncatedInput, "unterminated string at offset 0x%x", c.pos)
	}
	s, err := DecodeString(rest[:n])
	if err != nil {
		return "", err
	}
	c.pos += n + 1
	return s, nil
}

// WriteCursor is the mirror of Cursor: a sequential little-endian
// writer over a growing buffer.
type WriteCursor struct {
	buf bytes.Buffer
}

func NewWriteCursor() *WriteCursor {
	return &WriteCursor{}
}

func (w *WriteCursor) Pos() int {
	return w.buf.Len()
}

func (w *WriteCursor) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *WriteCursor) WriteBytes(b []byte) {
	w.buf.Write(b)
}

func (w *WriteCursor) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *WriteCursor) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *WriteCursor) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *WriteCursor) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteFixedString encodes s into an n bytes NUL-padded field.
func (w *WriteCursor) WriteFixedString(s string, n int) error {
	b, err := EncodeStringBuffer(s, n)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}
