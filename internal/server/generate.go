package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/matthewbaird/sheetforge/internal/gen"
	"github.com/matthewbaird/sheetforge/internal/ingest"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// maxWorkbookSize bounds uploaded schema files.
const maxWorkbookSize = 32 << 20

// handleGenerate ingests an uploaded schema file, runs the generation
// engine, and on success remounts the generated routes. Progress events
// stream to subscribed websocket clients while the run is in flight.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxWorkbookSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "NO_FILE", "No file uploaded")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	defer file.Close()

	entities, err := parseSchemaFile(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SCHEMA", err.Error())
		return
	}

	runner := gen.NewRunner(s.artifacts)
	runner.Emit = s.bus.Publish
	report, err := runner.Run(entities)
	if err != nil {
		writeError(w, http.StatusBadRequest, "GENERATION_FAILED", err.Error())
		return
	}

	if err := s.mountManifest(); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Code generated for: %s", strings.Join(names, ", ")),
		"report":  report,
	})
}

// parseSchemaFile dispatches on the uploaded file's extension: .json for a
// schema manifest, anything else is treated as an xlsx workbook.
func parseSchemaFile(file multipart.File, name string) ([]schema.Entity, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return ingest.ParseJSON(file)
	}
	return ingest.ParseWorkbook(file)
}
