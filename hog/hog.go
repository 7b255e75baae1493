package hog

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/drevan/d3utils/utils"
)

const HOG_TAG = "HOG2"
const HOG_TAG_SIZE = 4

// Header layout: tag, file count (i32), file data offset (i32), then
// a reserved block. The data offset field is not trusted on read:
// payload offsets are always derived from the table.
const HEADER_RESERVED_SIZE = 56
const HEADER_SIZE = HOG_TAG_SIZE + 4 + 4 + HEADER_RESERVED_SIZE

// RESERVED_FILL is the byte the retail tools pad the reserved block
// with when writing a fresh archive.
const RESERVED_FILL = 0xFF

// Archive is a parsed HOG container. The file table is read eagerly;
// payload bytes are reached lazily through section readers over the
// archive handle, so the archive must stay open while entry readers
// are in use. An Archive is read-only: create/combine always writes a
// new file.
type Archive struct {
	path     string
	file     *os.File
	size     int64
	reserved []byte
	entries  []*Entry
}

// IsHog sniffs the leading tag without parsing the rest of the file.
func IsHog(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var tag [HOG_TAG_SIZE]byte
	if _, err := io.ReadFull(f, tag[:]); err != nil {
		return false
	}
	return string(tag[:]) == HOG_TAG
}

// Open parses the header and file table of an existing archive and
// computes payload offsets.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[hog] Cannot open '%s'", path)
	}

	a, err := parse(f, path)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "[hog] '%s'", path)
	}
	return a, nil
}

func parse(f *os.File, path string) (*Archive, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fileSize := fi.Size()

	head := make([]byte, HEADER_SIZE)
	if n, err := io.ReadFull(f, head); err != nil {
		// A file carrying the tag but cut short inside the header is a
		// damaged archive, not a foreign file.
		if n >= HOG_TAG_SIZE && string(head[:HOG_TAG_SIZE]) == HOG_TAG {
			return nil, errors.Wrapf(ErrTruncatedArchive, "header: %d bytes, need %d", n, HEADER_SIZE)
		}
		return nil, errors.Wrapf(ErrBadMagic, "file too small for header: %v", err)
	}

	c := utils.NewCursor(head)
	tag, _ := c.ReadBytes(HOG_TAG_SIZE)
	if string(tag) != HOG_TAG {
		return nil, errors.Wrapf(ErrBadMagic, "got %q, expected %q", utils.DumpToOneLineString(tag), HOG_TAG)
	}

	nFiles, _ := c.ReadI32()
	c.Skip(4) // file data offset, derived instead of trusted
	reserved, _ := c.ReadBytes(HEADER_RESERVED_SIZE)

	if nFiles < 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "%d files", nFiles)
	}
	tableEnd := int64(HEADER_SIZE) + int64(nFiles)*ENTRY_SIZE
	if tableEnd > fileSize {
		return nil, errors.Wrapf(ErrInvalidCount, "%d files need table of %d bytes, file is %d", nFiles, tableEnd, fileSize)
	}

	table := make([]byte, int(nFiles)*ENTRY_SIZE)
	if _, err := io.ReadFull(f, table); err != nil {
		return nil, errors.Wrapf(ErrTruncatedArchive, "file table: %v", err)
	}

	entries := make([]*Entry, nFiles)
	offset := tableEnd
	for i := range entries {
		e := &Entry{}
		if err := e.Unmarshal(table[i*ENTRY_SIZE:]); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		e.Offset = offset
		e.HogFile = path
		offset += int64(e.Size)
		entries[i] = e
	}

	if offset > fileSize {
		return nil, errors.Wrapf(ErrTruncatedArchive, "payloads end at %d, file is %d bytes", offset, fileSize)
	}

	a := &Archive{
		path:     path,
		file:     f,
		size:     fileSize,
		reserved: append([]byte(nil), reserved...),
		entries:  entries,
	}
	return a, nil
}

func (a *Archive) Path() string {
	return a.path
}

// Entries returns the file table in on-disk order.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

func (a *Archive) Entry(name string) (*Entry, error) {
	for _, e := range a.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%q in '%s'", name, a.path)
}

// Reader returns a reader over exactly the entry's payload bytes.
// Valid until the archive is closed.
func (a *Archive) Reader(e *Entry) *io.SectionReader {
	return io.NewSectionReader(a.file, e.Offset, int64(e.Size))
}

// ReadEntry reads a whole payload into memory.
func (a *Archive) ReadEntry(e *Entry) ([]byte, error) {
	b := make([]byte, e.Size)
	if _, err := io.ReadFull(a.Reader(e), b); err != nil {
		return nil, errors.Wrapf(ErrTruncatedArchive, "read %q from '%s': %v", e.Name, a.path, err)
	}
	return b, nil
}

func (a *Archive) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
