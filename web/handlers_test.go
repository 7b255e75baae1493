package web

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drevan/d3utils/hog"
	"github.com/drevan/d3utils/utils"
)

// writeServedHog builds a small archive containing a text entry and a
// minimal 1x1 OGF texture entry.
func writeServedHog(t *testing.T, path string) {
	t.Helper()

	tex := utils.NewWriteCursor()
	tex.WriteBytes([]byte{0x00, 0x00, 0x7a}) // ARGB1555 tag
	tex.WriteBytes(append([]byte("dot"), 0))
	tex.WriteU8(1)
	tex.WriteBytes(make([]byte, 9))
	tex.WriteU16(1)
	tex.WriteU16(1)
	tex.WriteU16(0)
	tex.WriteU8(1)      // one pixel
	tex.WriteU16(0xFFFF)

	entries := []struct {
		name string
		data []byte
	}{
		{"readme.txt", []byte("served")},
		{"dot.ogf", tex.Bytes()},
	}

	w := utils.NewWriteCursor()
	w.WriteBytes([]byte(hog.HOG_TAG))
	w.WriteI32(int32(len(entries)))
	w.WriteI32(int32(hog.HEADER_SIZE + len(entries)*hog.ENTRY_SIZE))
	w.WriteBytes(make([]byte, hog.HEADER_RESERVED_SIZE))
	for _, e := range entries {
		require.NoError(t, w.WriteFixedString(e.name, hog.ENTRY_NAME_SIZE))
		w.WriteU32(0)
		w.WriteU32(uint32(len(e.data)))
		w.WriteU32(0)
	}
	for _, e := range entries {
		w.WriteBytes(e.data)
	}
	require.NoError(t, os.WriteFile(path, w.Bytes(), 0644))
}

func newTestServer(t *testing.T) (*Server, *hog.Archive) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "served.hog")
	writeServedHog(t, path)

	a, err := hog.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return NewServer([]*hog.Archive{a}), a
}

func TestHandlerListArchives(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json/hogs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"served.hog"}, names)
}

func TestHandlerListEntries(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json/hog/served.hog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []entryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "readme.txt", infos[0].Name)
	assert.Equal(t, uint32(6), infos[0].Size)
}

func TestHandlerDumpEntry(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dump/hog/served.hog/readme.txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "served", rec.Body.String())
}

func TestHandlerTexturePng(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/png/hog/served.hog/dot.ogf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestHandlerNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json/hog/missing.hog", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dump/hog/served.hog/missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
