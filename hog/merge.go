package hog

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Merger orchestrates show/extract/create over a list of input paths.
// Each input is auto-detected by magic: a valid HOG contributes its
// whole table, anything else becomes a single loose-file entry
// (original tools accept mixed inputs). Source archives stay open for
// the whole lifetime of the merger so that create can stream payload
// byte-ranges out of them.
type Merger struct {
	archives []*Archive
	writer   *Writer
}

func NewMerger() *Merger {
	return &Merger{writer: NewWriter()}
}

// AddInput reads one input path in source order.
func (m *Merger) AddInput(path string) error {
	if IsHog(path) {
		a, err := Open(path)
		if err != nil {
			return err
		}
		log.Printf("[hog] Reading %d files from '%s'", len(a.Entries()), path)
		m.archives = append(m.archives, a)
		m.writer.AddArchive(a)
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(ErrSourceUnreadable, "'%s': %v", path, err)
	}
	return m.writer.AddLooseFile(path)
}

// Entries returns the merged view: duplicates resolved last-wins,
// ordered case-insensitively by name. Show and extract operate on
// this view.
func (m *Merger) Entries() []*Entry {
	final := m.writer.finalEntries()
	entries := make([]*Entry, len(final))
	for i, p := range final {
		e := p.Entry
		if e.HogFile == "" {
			e.HogFile = p.loosePath
		}
		entries[i] = &e
	}
	return entries
}

// Extract writes every merged entry's payload under outDir, creating
// it if absent. Duplicate names across inputs were already resolved
// last-wins, so no two entries of one invocation share an output
// path; extraction over files from a previous run overwrites them.
func (m *Merger) Extract(outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, errors.Wrapf(err, "[hog] Cannot create output directory '%s'", outDir)
	}

	final := m.writer.finalEntries()
	if err := checkExtractConflicts(final); err != nil {
		return 0, err
	}

	count := 0
	for _, p := range final {
		if err := m.extractOne(p, outDir); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// checkExtractConflicts guards against distinct surviving names that
// still collide as paths on a case-insensitive filesystem.
func checkExtractConflicts(final []*pendingEntry) error {
	seen := make(map[string]string, len(final))
	for _, p := range final {
		key := strings.ToLower(p.Name)
		if other, ok := seen[key]; ok {
			return errors.Wrapf(ErrWriteConflict, "'%s' and '%s' extract to the same path", other, p.Name)
		}
		seen[key] = p.Name
	}
	return nil
}

func (m *Merger) extractOne(p *pendingEntry, outDir string) error {
	src, err := p.open()
	if err != nil {
		return err
	}
	defer src.Close()

	outPath := filepath.Join(outDir, p.Name)
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "[hog] Cannot create '%s'", outPath)
	}

	kind := ErrTruncatedArchive
	if p.archive == nil {
		kind = ErrSourceUnreadable
	}

	n, copyErr := out.ReadFrom(src)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(outPath)
		return errors.Wrapf(kind, "extract '%s': %v", p.Name, copyErr)
	}
	if n != int64(p.Size) {
		os.Remove(outPath)
		return errors.Wrapf(kind, "extract '%s': got %d bytes, table says %d", p.Name, n, p.Size)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "[hog] Close '%s'", outPath)
	}
	log.Printf("[hog] Extracted '%s'", p.Name)
	return nil
}

// Create builds one new archive from all inputs added so far.
func (m *Merger) Create(outPath string) error {
	return m.writer.WriteFile(outPath)
}

// SortedArchives returns the opened HOG inputs ordered by path, for
// serving.
func (m *Merger) SortedArchives() []*Archive {
	archives := append([]*Archive(nil), m.archives...)
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Path() < archives[j].Path()
	})
	return archives
}

func (m *Merger) Close() error {
	var result error
	for _, a := range m.archives {
		if err := a.Close(); err != nil && result == nil {
			result = err
		}
	}
	return result
}
