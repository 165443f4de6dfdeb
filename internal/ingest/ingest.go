// Package ingest turns schema inputs into entity definitions. It is the
// only package that knows about spreadsheet formats; the generation engine
// consumes the entity set it produces and stays format-agnostic.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matthewbaird/sheetforge/internal/schema"
)

// Workbook column headers. The header row is matched case-insensitively;
// unknown columns are ignored.
const (
	colLabel      = "label"
	colFieldName  = "fieldName"
	colType       = "type"
	colRequired   = "required"
	colOptions    = "options"
	colReference  = "reference"
	colUIType     = "uiType"
	colSearchable = "searchable"
)

// ParseWorkbook reads an xlsx workbook from r. Each sheet becomes one
// entity named after the trimmed sheet name; sheets with blank names are
// dropped. Rows without a fieldName value are skipped.
func ParseWorkbook(r io.Reader) ([]schema.Entity, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var entities []schema.Entity
	for _, sheet := range f.GetSheetList() {
		name := strings.TrimSpace(sheet)
		if name == "" {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		e := schema.Entity{Name: name, Fields: parseRows(rows)}
		e.Normalize()
		entities = append(entities, e)
	}
	return entities, nil
}

// parseRows interprets the first row as headers and the rest as field
// definitions.
func parseRows(rows [][]string) []schema.Field {
	if len(rows) == 0 {
		return nil
	}
	idx := headerIndex(rows[0])

	var fields []schema.Field
	for _, row := range rows[1:] {
		fieldName := strings.TrimSpace(cell(row, idx, colFieldName))
		if fieldName == "" {
			continue
		}
		f := schema.Field{
			Label:      strings.TrimSpace(cell(row, idx, colLabel)),
			FieldName:  fieldName,
			Type:       strings.TrimSpace(cell(row, idx, colType)),
			Required:   ParseBool(cell(row, idx, colRequired)),
			Options:    splitOptions(cell(row, idx, colOptions)),
			Reference:  strings.TrimSpace(cell(row, idx, colReference)),
			UIType:     strings.TrimSpace(cell(row, idx, colUIType)),
			Searchable: ParseBool(cell(row, idx, colSearchable)),
		}
		fields = append(fields, f)
	}
	return fields
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[strings.ToLower(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseBool coerces a sheet cell to a flag. Accepted truthy spellings are
// "true", "yes", "1" and "*", case-insensitive and trimmed; everything
// else, including an empty cell, is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "*":
		return true
	}
	return false
}

func splitOptions(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	var opts []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			opts = append(opts, part)
		}
	}
	return opts
}

// ParseJSON reads an entity set from a JSON document: an array of entities
// with their field definitions, the same shape the artifacts use.
func ParseJSON(r io.Reader) ([]schema.Entity, error) {
	var entities []schema.Entity
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entities); err != nil {
		return nil, fmt.Errorf("decode schema json: %w", err)
	}
	for i := range entities {
		entities[i].Normalize()
	}
	return entities, nil
}
