package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"frotafuel/internal/importer"
	"frotafuel/internal/logging"
)

// handleImport accepts a CSV file (multipart field "file" or a raw body)
// and runs the import pipeline. The report is returned as JSON: 200 when
// every row imported or skipped, 400 when validation rejected the batch.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	data, err := readCSVPayload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("import requested", "bytes", len(data))

	result, err := s.service.Import(r.Context(), data)
	if err != nil {
		// Storage failure: the batch rolled back, nothing was written.
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, result, status)
}

// readCSVPayload extracts CSV bytes from a multipart form or the raw body.
func readCSVPayload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New(`multipart request must carry a "file" field`)
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}

// handleTemplate serves the example CSV as a download.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="modelo_importacao_abastecimentos.csv"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, importer.Template())
}

// handleFormat serves the machine-readable column specification.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, importer.FormatSpec(), http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
