// Package gen is the schema-to-artifact generation engine. It interprets a
// normalized field schema and deterministically derives the persistence
// declaration, CRUD operation definitions, route surface, UI descriptors,
// and (for the reserved auth entity) the login subsystem, then aggregates
// navigation across all entities. Emission is idempotent by artifact
// identity: existing per-entity artifacts are skipped, never merged or
// overwritten.
package gen

import (
	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// ColumnType is the persistence-layer type of one declared field.
type ColumnType string

const (
	ColumnNumeric  ColumnType = "numeric"
	ColumnBoolean  ColumnType = "boolean"
	ColumnDateTime ColumnType = "datetime"
	ColumnRef      ColumnType = "ref"
	ColumnText     ColumnType = "text"
)

// Column declares one field of a persistence schema.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Required bool       `json:"required"`
	// Ref is the type-name form of the referenced entity. Set only for
	// ColumnRef columns; it must match the referenced entity's own model
	// declaration exactly, so both go through naming.TypeName.
	Ref string `json:"ref,omitempty"`
}

// ModelDecl is the persistence schema declaration for one entity.
type ModelDecl struct {
	Entity     string   `json:"entity"`
	TypeName   string   `json:"type_name"`
	Slug       string   `json:"slug"`
	Columns    []Column `json:"columns"`
	Timestamps bool     `json:"timestamps"`
}

// BuildModel maps an entity schema to its persistence declaration.
func BuildModel(e schema.Entity) ModelDecl {
	decl := ModelDecl{
		Entity:     e.Name,
		TypeName:   naming.TypeName(e.Name),
		Slug:       naming.Slug(e.Name),
		Columns:    make([]Column, 0, len(e.Fields)),
		Timestamps: true,
	}
	for _, f := range e.Fields {
		decl.Columns = append(decl.Columns, buildColumn(f))
	}
	return decl
}

func buildColumn(f schema.Field) Column {
	col := Column{Name: f.FieldName, Required: f.Required}
	switch f.Kind() {
	case schema.KindNumber:
		col.Type = ColumnNumeric
	case schema.KindBoolean:
		col.Type = ColumnBoolean
	case schema.KindDate:
		col.Type = ColumnDateTime
	case schema.KindReference:
		col.Type = ColumnRef
		col.Ref = naming.TypeName(f.Reference)
	case schema.KindSelect, schema.KindFile, schema.KindRadio,
		schema.KindLongText, schema.KindPassword, schema.KindText:
		col.Type = ColumnText
	default:
		col.Type = ColumnText
	}
	return col
}
