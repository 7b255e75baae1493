package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/drevan/d3utils/hog"
)

// StartServer exposes a set of opened archives over HTTP: JSON
// listings, entry downloads and OGF-to-PNG previews. The archives
// stay open for the lifetime of the server.
func StartServer(addr string, archives []*hog.Archive) error {
	s := NewServer(archives)

	h := handlers.RecoveryHandler()(s.Router())
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}

// Server routes requests to a fixed set of archives keyed by base
// name.
type Server struct {
	archives map[string]*hog.Archive
	names    []string
}

func NewServer(archives []*hog.Archive) *Server {
	s := &Server{archives: make(map[string]*hog.Archive, len(archives))}
	for _, a := range archives {
		name := baseName(a.Path())
		if _, ok := s.archives[name]; ok {
			log.Printf("[web] Duplicate archive name '%s', keeping the first one", name)
			continue
		}
		s.archives[name] = a
		s.names = append(s.names, name)
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/hogs", s.HandlerListArchives)
	r.HandleFunc("/json/hog/{hog}", s.HandlerListEntries)
	r.HandleFunc("/dump/hog/{hog}/{entry}", s.HandlerDumpEntry)
	r.HandleFunc("/png/hog/{hog}/{entry}", s.HandlerTexturePng)
	return r
}
