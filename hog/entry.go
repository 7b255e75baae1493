package hog

import (
	"github.com/pkg/errors"

	"github.com/drevan/d3utils/utils"
)

const ENTRY_SIZE = 48
const ENTRY_NAME_SIZE = 36

// MAX_NAME_LEN leaves room for the NUL terminator inside the fixed
// name field.
const MAX_NAME_LEN = ENTRY_NAME_SIZE - 1

// Entry is one record of a HOG file table. Flags and Timestamp are
// opaque pass-through values. Offset is never stored on disk: the v2
// layout is contiguous, so it is recomputed from the ordered table on
// every parse.
type Entry struct {
	Name      string
	Flags     uint32
	Size      uint32
	Timestamp uint32

	Offset  int64  // derived: header end + sizes of preceding entries
	HogFile string // archive the entry came from, "" for loose files
}

func (e *Entry) Unmarshal(buffer []byte) error {
	c := utils.NewCursor(buffer[:ENTRY_SIZE])

	name, err := c.ReadFixedString(ENTRY_NAME_SIZE)
	if err != nil {
		return err
	}
	e.Name = name
	e.Flags, _ = c.ReadU32()
	e.Size, _ = c.ReadU32()
	e.Timestamp, _ = c.ReadU32()
	return nil
}

func (e *Entry) Marshal() ([]byte, error) {
	w := utils.NewWriteCursor()
	if err := w.WriteFixedString(e.Name, ENTRY_NAME_SIZE); err != nil {
		return nil, errors.Wrapf(ErrNameTooLong, "%q: %v", e.Name, err)
	}
	w.WriteU32(e.Flags)
	w.WriteU32(e.Size)
	w.WriteU32(e.Timestamp)
	return w.Bytes(), nil
}

// checkName rejects names that cannot round-trip through the fixed
// name field before any byte of output is written.
func checkName(name string) error {
	encoded, err := utils.EncodeString(name, false)
	if err != nil {
		return err
	}
	if len(encoded) > MAX_NAME_LEN {
		return errors.Wrapf(ErrNameTooLong, "%q is %d bytes, limit %d", name, len(encoded), MAX_NAME_LEN)
	}
	return nil
}
