package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Desired-state snapshot.
	mux.HandleFunc("GET /v1/snapshot", s.handleGetSnapshot)
	mux.HandleFunc("PUT /v1/snapshot", s.handlePutSnapshot)

	// Files.
	mux.HandleFunc("POST /v1/import", s.handleImport)
	mux.HandleFunc("GET /v1/files/{path}", s.handleGetFile)

	// Reference data.
	mux.HandleFunc("GET /v1/tags", s.handleTags)
	mux.HandleFunc("GET /v1/categories", s.handleCategories)

	return mux
}
