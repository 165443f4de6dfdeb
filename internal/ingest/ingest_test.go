package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matthewbaird/sheetforge/internal/schema"
)

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "products"))
	rows := [][]any{
		{"label", "fieldName", "type", "required", "options", "reference", "uiType", "searchable"},
		{"Name", "name", "string", "Yes", "", "", "", "*"},
		{"Status", "status", "string", "", "draft, live", "", "select", ""},
		{"Category", "category", "objectid", "true", "", "categories", "", ""},
		{"", "", "", "", "", "", "", ""},
		{"Orphan label without a field name"},
		{"Photo", "photo", "file", "1", "", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("products", cell, &row))
	}

	_, err := f.NewSheet("AuthUsers")
	require.NoError(t, err)
	authRows := [][]any{
		{"label", "fieldName", "type", "required", "uiType"},
		{"Email", "email", "string", "yes", "login:identity"},
		{"Password", "password", "password", "yes", ""},
	}
	for i, row := range authRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("AuthUsers", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	entities, err := ParseWorkbook(buildWorkbook(t))
	require.NoError(t, err)
	require.Len(t, entities, 2)

	products := entities[0]
	assert.Equal(t, "products", products.Name)
	require.Len(t, products.Fields, 4, "rows without a fieldName are dropped")

	name := products.Fields[0]
	assert.True(t, name.Required)
	assert.True(t, name.Searchable)
	assert.Equal(t, "input", name.UIType, "blank ui_type is inferred from the type")

	status := products.Fields[1]
	assert.Equal(t, []string{"draft", "live"}, status.Options)
	assert.False(t, status.Required)
	assert.Equal(t, schema.KindSelect, status.Kind())

	category := products.Fields[2]
	assert.Equal(t, "categories", category.Reference)
	assert.Equal(t, schema.KindReference, category.Kind())

	photo := products.Fields[3]
	assert.True(t, photo.Required)
	assert.Equal(t, schema.KindFile, photo.Kind())

	auth := entities[1]
	assert.Equal(t, "AuthUsers", auth.Name)
	require.Len(t, auth.Fields, 2)
	assert.True(t, auth.Fields[0].IsIdentity())
	assert.Equal(t, schema.KindPassword, auth.Fields[1].Kind())
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "yes", " Yes ", "1", "*"} {
		assert.True(t, ParseBool(v), "%q", v)
	}
	for _, v := range []string{"", "no", "false", "0", "maybe"} {
		assert.False(t, ParseBool(v), "%q", v)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `[
  {
    "name": "brands",
    "fields": [
      {"label": "Name", "field_name": "name", "type": "string", "required": true, "searchable": true}
    ]
  }
]`
	entities, err := ParseJSON(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "brands", entities[0].Name)
	assert.Equal(t, "input", entities[0].Fields[0].UIType)
}

func TestParseJSONRejectsUnknownKeys(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`[{"name": "x", "sheets": []}]`))
	assert.Error(t, err)
}
