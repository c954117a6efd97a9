package server

import (
	"fmt"
	"net/http"
	"strings"

	"fileshelf/internal/api"
	"fileshelf/internal/importer"
	"fileshelf/internal/models"
)

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.LoadSnapshot()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if !s.decodeJSONReq(w, r, &snap) {
		return
	}

	res, err := s.app.StoreSnapshot(r.Context(), snap)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.SnapshotResponse{
		TagsInserted:       res.TagsInserted,
		TagsDeleted:        res.TagsDeleted,
		CategoriesInserted: res.CategoriesInserted,
		CategoriesDeleted:  res.CategoriesDeleted,
		ValuesInserted:     res.ValuesInserted,
		ValuesDeleted:      res.ValuesDeleted,
		Warnings:           res.WarningMessages(),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.withLimiter(w, r, s.importLimiter, "import", func() {
		var req api.ImportRequest
		if !s.decodeJSONReq(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.SourcePath) == "" {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("source_path is required"), ErrCodeMissingRequired))
			return
		}

		file, err := s.app.Import(r.Context(), importer.Request{
			SourcePath: req.SourcePath,
			Tags:       req.Tags,
			Values:     req.Values,
		})
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, file)
	})
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.PathValue("path"))
	if path == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("file path is required"), ErrCodeMissingRequired))
		return
	}

	detail, err := s.app.File(r.Context(), path)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if detail == nil {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("file not found: %s", path), ErrCodeFileNotFound))
		return
	}
	if detail.Tags == nil {
		detail.Tags = []string{}
	}
	if detail.Values == nil {
		detail.Values = []models.ValueRef{}
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.app.Tags(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	s.writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.app.Categories(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	s.writeJSON(w, http.StatusOK, categories)
}
