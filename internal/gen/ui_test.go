package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/sheetforge/internal/schema"
)

func TestBuildUIFormWidgets(t *testing.T) {
	ui := BuildUI(productEntity())

	assert.Equal(t, "Products", ui.TypeName)
	assert.Equal(t, "Products", ui.Form.Title)
	assert.Equal(t, "/api/products", ui.Form.SubmitEndpoint)
	assert.Equal(t, "/api/products/{id}", ui.Form.LoadEndpoint)
	require.Len(t, ui.Form.Fields, 8)

	byName := make(map[string]FormField)
	for _, f := range ui.Form.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, WidgetText, byName["name"].Widget)
	assert.Equal(t, WidgetText, byName["price"].Widget)

	active := byName["active"]
	assert.Equal(t, WidgetCheckbox, active.Widget)
	assert.Equal(t, false, active.Initial)

	launch := byName["launch_date"]
	assert.Equal(t, WidgetDate, launch.Widget)
	assert.True(t, launch.DateOnly)

	category := byName["category"]
	assert.Equal(t, WidgetRefSelect, category.Widget)
	require.NotNil(t, category.Ref)
	assert.Equal(t, "product-categories", category.Ref.Entity)
	assert.Equal(t, "/api/product-categories", category.Ref.Endpoint)
	assert.Equal(t, []string{"name", "title"}, category.Ref.LabelFields)
	assert.True(t, category.Ref.AllowNone, "optional reference offers an empty choice")

	assert.Equal(t, WidgetTextarea, byName["description"].Widget)
	assert.Equal(t, WidgetFile, byName["photo"].Widget)

	status := byName["status"]
	assert.Equal(t, WidgetSelect, status.Widget)
	assert.Equal(t, []string{"draft", "live"}, status.Options)
}

func TestBuildUIWidgetPriority(t *testing.T) {
	// A boolean with options stays a checkbox; a reference with ui_type
	// select stays a dependent select. Earlier rules win.
	e := schema.Entity{
		Name: "widgets",
		Fields: []schema.Field{
			{Label: "Flag", FieldName: "flag", Type: "boolean", UIType: "select", Options: []string{"a", "b"}},
			{Label: "Owner", FieldName: "owner", Type: "string", UIType: "select", Options: []string{"x"}, Reference: "users"},
			{Label: "Level", FieldName: "level", Type: "string", UIType: "radio", Options: []string{"low", "high"}},
		},
	}
	e.Normalize()
	ui := BuildUI(e)

	assert.Equal(t, WidgetCheckbox, ui.Form.Fields[0].Widget)
	assert.Equal(t, WidgetRefSelect, ui.Form.Fields[1].Widget)
	assert.Equal(t, WidgetRadio, ui.Form.Fields[2].Widget)
}

func TestBuildUIList(t *testing.T) {
	ui := BuildUI(productEntity())

	assert.Equal(t, "Products", ui.List.Title)
	assert.Equal(t, "/api/products", ui.List.Endpoint)
	assert.Equal(t, DefaultLimit, ui.List.DefaultLimit)

	byField := make(map[string]ListColumn)
	for _, c := range ui.List.Columns {
		byField[c.Field] = c
	}
	assert.Equal(t, RenderYesNo, byField["active"].Render)
	assert.Equal(t, RenderDate, byField["launch_date"].Render)

	cat := byField["category"]
	assert.Equal(t, RenderRef, cat.Render)
	assert.Equal(t, []string{"name", "title"}, cat.LabelFields)

	name := byField["name"]
	assert.Equal(t, RenderText, name.Render)
	assert.Equal(t, truncateWidth, name.Truncate)

	require.Len(t, ui.List.RowActions, 2)
	assert.Equal(t, "edit", ui.List.RowActions[0].Name)
	assert.Equal(t, "delete", ui.List.RowActions[1].Name)
	assert.NotEmpty(t, ui.List.RowActions[1].Confirm)
}

func TestBuildUIPluralTitle(t *testing.T) {
	e := schema.Entity{
		Name: "cms page",
		Fields: []schema.Field{
			{Label: "Title", FieldName: "title", Type: "string"},
		},
	}
	e.Normalize()
	ui := BuildUI(e)

	assert.Equal(t, "Cms Page", ui.Form.Title)
	assert.Equal(t, "Cms Pages", ui.List.Title)
}
