package web

import (
	"image/png"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/drevan/d3utils/hog"
	"github.com/drevan/d3utils/ogf"
	"github.com/drevan/d3utils/webutils"
)

func baseName(path string) string {
	return filepath.Base(path)
}

func (s *Server) archive(r *http.Request) (*hog.Archive, error) {
	name := mux.Vars(r)["hog"]
	a, ok := s.archives[name]
	if !ok {
		return nil, errors.Wrapf(hog.ErrNotFound, "archive '%s'", name)
	}
	return a, nil
}

func (s *Server) HandlerListArchives(w http.ResponseWriter, r *http.Request) {
	names := append([]string(nil), s.names...)
	sort.Strings(names)
	webutils.WriteJson(w, names)
}

type entryInfo struct {
	Name      string `json:"name"`
	Size      uint32 `json:"size"`
	Flags     uint32 `json:"flags"`
	Timestamp uint32 `json:"timestamp"`
	Offset    int64  `json:"offset"`
}

func (s *Server) HandlerListEntries(w http.ResponseWriter, r *http.Request) {
	a, err := s.archive(r)
	if err != nil {
		webutils.WriteNotFound(w, err)
		return
	}

	entries := a.Entries()
	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Name:      e.Name,
			Size:      e.Size,
			Flags:     e.Flags,
			Timestamp: e.Timestamp,
			Offset:    e.Offset,
		}
	}
	webutils.WriteJson(w, infos)
}

func (s *Server) HandlerDumpEntry(w http.ResponseWriter, r *http.Request) {
	a, err := s.archive(r)
	if err != nil {
		webutils.WriteNotFound(w, err)
		return
	}

	e, err := a.Entry(mux.Vars(r)["entry"])
	if err != nil {
		webutils.WriteNotFound(w, err)
		return
	}

	webutils.WriteFile(w, a.Reader(e), e.Name)
}

func (s *Server) HandlerTexturePng(w http.ResponseWriter, r *http.Request) {
	a, err := s.archive(r)
	if err != nil {
		webutils.WriteNotFound(w, err)
		return
	}

	e, err := a.Entry(mux.Vars(r)["entry"])
	if err != nil {
		webutils.WriteNotFound(w, err)
		return
	}
	if !strings.EqualFold(filepath.Ext(e.Name), ".ogf") {
		webutils.WriteError(w, errors.Errorf("'%s' is not an OGF texture", e.Name))
		return
	}

	t, err := ogf.Decode(a.Reader(e))
	if err != nil {
		log.Printf("[web] Cannot decode texture '%s': %v", e.Name, err)
		webutils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, t.Base()); err != nil {
		log.Printf("[web] Cannot encode png for '%s': %v", e.Name, err)
	}
}
