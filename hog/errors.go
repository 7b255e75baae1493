package hog

import "github.com/pkg/errors"

var (
	// ErrBadMagic is returned when a file does not start with the HOG2
	// tag. This is the only format-validation gate: no other header
	// field distinguishes a HOG from garbage.
	ErrBadMagic = errors.New("bad HOG magic")

	// ErrInvalidCount is returned when the file count is negative or
	// the entry table could not fit in the file.
	ErrInvalidCount = errors.New("invalid file count")

	// ErrTruncatedArchive is returned when the payloads declared by
	// the entry table run past the end of the file.
	ErrTruncatedArchive = errors.New("truncated archive")

	// ErrNameTooLong is returned when an entry name does not fit the
	// fixed name field. Names are never silently truncated.
	ErrNameTooLong = errors.New("entry name too long")

	// ErrSourceUnreadable is returned when a declared source file or
	// archive byte-range cannot be opened or read during a write.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrEmptyInput is returned when a create operation ends up with
	// zero entries.
	ErrEmptyInput = errors.New("no entries to write")

	// ErrWriteConflict is returned when two concurrent operations
	// would write the same output path.
	ErrWriteConflict = errors.New("output path conflict")

	// ErrNotFound is returned when an entry name is not present in an
	// archive's table.
	ErrNotFound = errors.New("entry not found")
)
