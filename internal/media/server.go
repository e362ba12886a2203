package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"seedling/internal/dbmongo"
)

type ImageSource interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, *dbmongo.ImageFile, error)
}

// HTTPServer streams stored chat images. URLs handed out by the gateway point here.
type HTTPServer struct {
	storage ImageSource
	router  *mux.Router
}

func NewHTTPServer(storage ImageSource) *HTTPServer {
	s := &HTTPServer{storage: storage, router: mux.NewRouter()}
	s.router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, image, err := s.storage.Open(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, dbmongo.ErrImageNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("file_id", fileID).Msg("open image")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", image.Size))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, reader); err != nil {
		log.Warn().Err(err).Str("file_id", fileID).Msg("error streaming file")
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
