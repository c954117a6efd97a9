package server

import (
	"net/http"

	"fileshelf/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.app.Info(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := api.InfoResponse{
		DBPath:      info.DBPath,
		CatalogPath: info.CatalogPath,
		Configured:  info.Configured,
		Folder:      info.Folder,
		StoreOpen:   info.StoreOpen,
	}
	if info.Store != nil {
		resp.SchemaVersion = info.Store.SchemaVersion
		resp.Files = info.Store.Files
		resp.Tags = info.Store.Tags
		resp.Categories = info.Store.Categories
		resp.CategoryValues = info.Store.CategoryValues
	}

	s.writeJSON(w, http.StatusOK, resp)
}
