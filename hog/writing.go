package hog

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/drevan/d3utils/utils"
)

// pendingEntry is one contribution to an archive being built: either
// a byte-range of a still-open source archive or a loose file read at
// write time. srcOffset locates the payload in the source archive and
// stays fixed; Entry.Offset is rewritten to the output layout when the
// table is marshaled, so the two must never be conflated.
type pendingEntry struct {
	Entry
	archive   *Archive // payload source when entry came from an archive
	srcOffset int64    // payload position inside the source archive
	loosePath string   // payload source when entry is a loose file
}

func (p *pendingEntry) open() (io.ReadCloser, error) {
	if p.archive != nil {
		return io.NopCloser(io.NewSectionReader(p.archive.file, p.srcOffset, int64(p.Size))), nil
	}
	f, err := os.Open(p.loosePath)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnreadable, "'%s': %v", p.loosePath, err)
	}
	return f, nil
}

// Writer accumulates sources and serializes a new archive in one
// pass. Source archives must stay open until WriteFile returns.
type Writer struct {
	reserved []byte // reserved block carried over from a source archive
	pending  []*pendingEntry
}

func NewWriter() *Writer {
	return &Writer{}
}

// AddArchive contributes every entry of a parsed archive in its
// stored order. The first archive added donates its reserved header
// block to the output.
func (w *Writer) AddArchive(a *Archive) {
	if w.reserved == nil {
		w.reserved = a.reserved
	}
	for _, e := range a.Entries() {
		w.pending = append(w.pending, &pendingEntry{Entry: *e, archive: a, srcOffset: e.Offset})
	}
}

// AddLooseFile contributes one entry named after the file's base
// name, with the file's mtime as timestamp.
func (w *Writer) AddLooseFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(ErrSourceUnreadable, "'%s': %v", path, err)
	}
	// The size field is a u32, so anything larger cannot be stored.
	if fi.Size() > math.MaxUint32 {
		return errors.Wrapf(ErrSourceUnreadable, "'%s': %d bytes exceeds the format's 4 GiB entry limit", path, fi.Size())
	}
	if err := checkName(filepath.Base(path)); err != nil {
		return err
	}
	w.pending = append(w.pending, &pendingEntry{
		Entry: Entry{
			Name:      filepath.Base(path),
			Size:      uint32(fi.Size()),
			Timestamp: uint32(fi.ModTime().Unix()),
		},
		loosePath: path,
	})
	return nil
}

// finalEntries resolves duplicate names (exact, case-sensitive match;
// the later contribution wins) and orders the surviving entries the
// way the retail tools do: case-insensitively by name.
func (w *Writer) finalEntries() []*pendingEntry {
	byName := make(map[string]*pendingEntry, len(w.pending))
	for _, p := range w.pending {
		if old, ok := byName[p.Name]; ok {
			log.Printf("[hog] Entry '%s' from '%s' overrides earlier copy from '%s'", p.Name, sourceName(p), sourceName(old))
		}
		byName[p.Name] = p
	}

	final := make([]*pendingEntry, 0, len(byName))
	for _, p := range byName {
		final = append(final, p)
	}
	sort.Slice(final, func(i, j int) bool {
		return strings.ToLower(final[i].Name) < strings.ToLower(final[j].Name)
	})
	return final
}

func sourceName(p *pendingEntry) string {
	if p.archive != nil {
		return p.archive.Path()
	}
	return p.loosePath
}

// WriteFile serializes the deduplicated entry set to path. The output
// is built in a temp file and renamed into place, so a failed write
// leaves no partial archive behind.
func (w *Writer) WriteFile(path string) error {
	final := w.finalEntries()
	if len(final) == 0 {
		return ErrEmptyInput
	}

	head, err := w.marshalHeaderAndTable(final)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".hog_*.tmp")
	if err != nil {
		return errors.Wrapf(err, "[hog] Cannot create temp file near '%s'", path)
	}
	tmpPath := tmp.Name()

	if err := w.writePayloads(tmp, head, final); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "[hog] Close '%s'", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "[hog] Rename into '%s'", path)
	}

	log.Printf("[hog] Wrote %d files to '%s'", len(final), path)
	return nil
}

func (w *Writer) marshalHeaderAndTable(final []*pendingEntry) ([]byte, error) {
	reserved := w.reserved
	if reserved == nil {
		reserved = make([]byte, HEADER_RESERVED_SIZE)
		for i := range reserved {
			reserved[i] = RESERVED_FILL
		}
	}

	dataOffset := int64(HEADER_SIZE) + int64(len(final))*ENTRY_SIZE

	wc := utils.NewWriteCursor()
	wc.WriteBytes([]byte(HOG_TAG))
	wc.WriteI32(int32(len(final)))
	wc.WriteI32(int32(dataOffset))
	wc.WriteBytes(reserved)

	// Offsets are implicit in the v2 layout: recompute them here only
	// to keep the in-memory entries consistent with what a re-parse
	// of the output would derive.
	offset := dataOffset
	for _, p := range final {
		p.Offset = offset
		offset += int64(p.Size)

		b, err := p.Marshal()
		if err != nil {
			return nil, err
		}
		wc.WriteBytes(b)
	}
	return wc.Bytes(), nil
}

func (w *Writer) writePayloads(out io.Writer, head []byte, final []*pendingEntry) error {
	if _, err := out.Write(head); err != nil {
		return errors.Wrap(err, "[hog] Write header")
	}

	for _, p := range final {
		src, err := p.open()
		if err != nil {
			return err
		}
		n, err := io.Copy(out, src)
		src.Close()
		if err != nil {
			return errors.Wrapf(ErrSourceUnreadable, "copy '%s': %v", p.Name, err)
		}
		if n != int64(p.Size) {
			return errors.Wrapf(ErrSourceUnreadable, "'%s': wrote %d bytes, table says %d", p.Name, n, p.Size)
		}
	}
	return nil
}
