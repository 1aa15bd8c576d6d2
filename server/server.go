// Package server exposes the HTTP surface of the career-guide service:
// resume upload and chat. It owns the process-wide vector store instance
// and serializes the read-modify-persist upload sequence behind a mutex.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/careerguide/careerguide/errors"
	"github.com/careerguide/careerguide/extract"
	"github.com/careerguide/careerguide/guide"
	"github.com/careerguide/careerguide/logging"
	"github.com/careerguide/careerguide/vectorstore"
)

// uploadResponse is the body returned after a successful upload.
type uploadResponse struct {
	Message string `json:"message"`
}

// chatRequest is the body of a chat query.
type chatRequest struct {
	Query string `json:"query"`
}

// errorResponse is the body returned for request failures.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Server handles the two service endpoints.
type Server struct {
	store  vectorstore.Store
	guide  *guide.Guide
	logger *logging.Logger

	// uploadMu serializes extract-insert-persist so two uploads never
	// interleave their persistence steps.
	uploadMu sync.Mutex
}

// Config configures a Server.
type Config struct {
	Store  vectorstore.Store
	Guide  *guide.Guide
	Logger *logging.Logger
}

// New creates a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New()
	}
	return &Server{
		store:  cfg.Store,
		guide:  cfg.Guide,
		logger: logger.WithComponent("server"),
	}
}

// Handler returns the full HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload_resume/", s.handleUploadResume)
	mux.HandleFunc("/chat/", s.handleChat)
	return s.withLogging(withCORS(mux))
}

// handleUploadResume accepts a multipart file, extracts its text and
// indexes it.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	text, err := extract.Extract(header.Filename, file)
	if err != nil {
		s.logger.Warn("extraction failed", map[string]interface{}{
			"filename": header.Filename,
			"error":    err.Error(),
		})
		s.writeError(w, errors.HTTPStatus(err), err.Error())
		return
	}

	s.uploadMu.Lock()
	version, err := s.store.Insert(r.Context(), text)
	s.uploadMu.Unlock()
	if err != nil {
		s.logger.Error("indexing failed", map[string]interface{}{"error": err.Error()})
		s.writeError(w, errors.HTTPStatus(err), err.Error())
		return
	}

	s.logger.Info("resume indexed", map[string]interface{}{
		"filename": header.Filename,
		"version":  version,
		"chars":    len(text),
	})
	s.writeJSON(w, http.StatusOK, uploadResponse{Message: "Resume indexed successfully"})
}

// handleChat answers a career question about the indexed resume.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.guide.Answer(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("chat failed", map[string]interface{}{"error": err.Error()})
		s.writeError(w, errors.HTTPStatus(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

// withCORS permits all origins, methods and headers. The reference
// deployment serves a browser frontend from arbitrary origins; restrict
// this before exposing the service anywhere that matters.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": rec.status,
		})
	})
}
