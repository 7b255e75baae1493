package hog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drevan/d3utils/utils"
)

type testEntry struct {
	name      string
	flags     uint32
	timestamp uint32
	data      []byte
}

// writeTestHog serializes a HOG2 archive by hand, independent of the
// production write path.
func writeTestHog(t *testing.T, path string, entries []testEntry) {
	t.Helper()

	w := utils.NewWriteCursor()
	w.WriteBytes([]byte("HOG2"))
	w.WriteI32(int32(len(entries)))
	w.WriteI32(int32(HEADER_SIZE + len(entries)*ENTRY_SIZE))
	for i := 0; i < HEADER_RESERVED_SIZE; i++ {
		w.WriteU8(0xFF)
	}
	for _, e := range entries {
		require.NoError(t, w.WriteFixedString(e.name, ENTRY_NAME_SIZE))
		w.WriteU32(e.flags)
		w.WriteU32(uint32(len(e.data)))
		w.WriteU32(e.timestamp)
	}
	for _, e := range entries {
		w.WriteBytes(e.data)
	}

	require.NoError(t, os.WriteFile(path, w.Bytes(), 0644))
}

func TestOpenParsesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.hog")
	writeTestHog(t, path, []testEntry{
		{name: "a.txt", data: []byte("HELLO")},
		{name: "b.txt", data: []byte("BYE")},
	})

	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()

	entries := a.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, uint32(5), entries[0].Size)
	assert.Equal(t, int64(HEADER_SIZE+2*ENTRY_SIZE), entries[0].Offset)

	assert.Equal(t, "b.txt", entries[1].Name)
	assert.Equal(t, uint32(3), entries[1].Size)
	assert.Equal(t, entries[0].Offset+int64(entries[0].Size), entries[1].Offset)

	b, err := a.ReadEntry(entries[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("HELLO"), b)

	b, err = a.ReadEntry(entries[1])
	require.NoError(t, err)
	assert.Equal(t, []byte("BYE"), b)
}

func TestOffsetInvariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.hog")
	writeTestHog(t, path, []testEntry{
		{name: "one", data: make([]byte, 17)},
		{name: "two", data: make([]byte, 0)},
		{name: "three", data: make([]byte, 301)},
	})

	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()

	entries := a.Entries()
	offset := int64(HEADER_SIZE + len(entries)*ENTRY_SIZE)
	for i, e := range entries {
		assert.Equal(t, offset, e.Offset, "entry %d", i)
		offset += int64(e.Size)
	}

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, offset, fi.Size())
}

func TestOpenBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.hog")
	require.NoError(t, os.WriteFile(path, []byte("GARBAGE IN, GARBAGE OUT. NO TAG HERE AT ALL, JUST PADDING BYTES TO PASS HEADER SIZE."), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadMagic))
}

func TestOpenInvalidCount(t *testing.T) {
	dir := t.TempDir()

	// Negative count.
	path := filepath.Join(dir, "neg.hog")
	w := utils.NewWriteCursor()
	w.WriteBytes([]byte("HOG2"))
	w.WriteI32(-1)
	w.WriteI32(HEADER_SIZE)
	w.WriteBytes(make([]byte, HEADER_RESERVED_SIZE))
	require.NoError(t, os.WriteFile(path, w.Bytes(), 0644))

	_, err := Open(path)
	assert.True(t, errors.Is(err, ErrInvalidCount), "got %v", err)

	// Count larger than the file could hold.
	path = filepath.Join(dir, "huge.hog")
	w = utils.NewWriteCursor()
	w.WriteBytes([]byte("HOG2"))
	w.WriteI32(1 << 28)
	w.WriteI32(HEADER_SIZE)
	w.WriteBytes(make([]byte, HEADER_RESERVED_SIZE))
	require.NoError(t, os.WriteFile(path, w.Bytes(), 0644))

	_, err = Open(path)
	assert.True(t, errors.Is(err, ErrInvalidCount), "got %v", err)
}

func TestOpenTruncatedArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trunc.hog")
	writeTestHog(t, path, []testEntry{
		{name: "a.txt", data: []byte("HELLO")},
		{name: "b.txt", data: []byte("BYE")},
	})

	// Drop the final payload byte: the table now promises more data
	// than the file holds.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b[:len(b)-1], 0644))

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncatedArchive), "got %v", err)
}

func TestOpenTruncatedHeader(t *testing.T) {
	// Carries the tag but is cut short inside the header: damaged
	// archive, not a foreign file.
	path := filepath.Join(t.TempDir(), "cut.hog")
	require.NoError(t, os.WriteFile(path, []byte("HOG2\x01\x00\x00"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncatedArchive), "got %v", err)
	assert.False(t, errors.Is(err, ErrBadMagic))
}

func TestIsHog(t *testing.T) {
	dir := t.TempDir()

	hogPath := filepath.Join(dir, "real.hog")
	writeTestHog(t, hogPath, []testEntry{{name: "x", data: []byte("y")}})
	assert.True(t, IsHog(hogPath))

	loosePath := filepath.Join(dir, "loose.txt")
	require.NoError(t, os.WriteFile(loosePath, []byte("just text"), 0644))
	assert.False(t, IsHog(loosePath))

	assert.False(t, IsHog(filepath.Join(dir, "missing")))
}

func TestEntryMarshalNameTooLong(t *testing.T) {
	e := &Entry{Name: "this_name_is_way_longer_than_the_fixed_field_allows.txt"}
	_, err := e.Marshal()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameTooLong))
}

func TestEntryMarshalRoundTrip(t *testing.T) {
	in := &Entry{Name: "orion9.ogf", Flags: 7, Size: 1234, Timestamp: 987654321}
	b, err := in.Marshal()
	require.NoError(t, err)
	require.Len(t, b, ENTRY_SIZE)

	var out Entry
	require.NoError(t, out.Unmarshal(b))
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Flags, out.Flags)
	assert.Equal(t, in.Size, out.Size)
	assert.Equal(t, in.Timestamp, out.Timestamp)
}
