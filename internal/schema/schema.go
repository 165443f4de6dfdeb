// Package schema defines the normalized field schema every emitter consumes.
// One Entity corresponds to one sheet of the source workbook; one Field
// corresponds to one row describing a single attribute.
package schema

import (
	"fmt"
	"strings"
)

// Field is one schema row.
type Field struct {
	Label      string   `json:"label"`
	FieldName  string   `json:"field_name"`
	Type       string   `json:"type"`
	Required   bool     `json:"required"`
	Options    []string `json:"options,omitempty"`
	Reference  string   `json:"reference,omitempty"`
	UIType     string   `json:"ui_type,omitempty"`
	Searchable bool     `json:"searchable,omitempty"`
}

// Entity is a named, ordered collection of fields.
type Entity struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Kind classifies a field into the closed set of variants the emitters
// dispatch on. Every consumer (persistence mapping, form widget, table
// cell, CRUD special-casing) switches exhaustively on Kind, so adding a
// field type means adding one variant here plus one case per consumer.
type Kind string

const (
	KindBoolean   Kind = "boolean"
	KindDate      Kind = "date"
	KindReference Kind = "reference"
	KindSelect    Kind = "select"
	KindFile      Kind = "file"
	KindRadio     Kind = "radio"
	KindLongText  Kind = "long_text"
	KindPassword  Kind = "password"
	KindNumber    Kind = "number"
	KindText      Kind = "text"
)

// Kind resolves the field's variant. Rules are ordered; the first match
// wins. A field with Reference set is a cross-reference regardless of its
// declared type.
func (f Field) Kind() Kind {
	typ := strings.ToLower(strings.TrimSpace(f.Type))
	ui := strings.ToLower(strings.TrimSpace(f.UIType))
	switch {
	case typ == "boolean":
		return KindBoolean
	case typ == "date":
		return KindDate
	case f.Reference != "" || typ == "objectid":
		return KindReference
	case ui == "select" && len(f.Options) > 0:
		return KindSelect
	case typ == "file" || typ == "image" || ui == "file":
		return KindFile
	case ui == "radio" && len(f.Options) > 0:
		return KindRadio
	case typ == "textarea" || ui == "textarea":
		return KindLongText
	case typ == "password" || ui == "password":
		return KindPassword
	case typ == "number":
		return KindNumber
	default:
		return KindText
	}
}

// IsIdentity reports whether the field carries the login-identity
// presentation hint used by the auth subsystem activation check.
func (f Field) IsIdentity() bool {
	return strings.EqualFold(strings.TrimSpace(f.UIType), "login:identity")
}

// InferUIType returns the presentation hint implied by a field type, used
// when the schema row leaves ui_type blank. Password and email keep the
// plain input hint: their behavior is driven by their type, not their
// presentation.
func InferUIType(fieldType string) string {
	switch strings.ToLower(strings.TrimSpace(fieldType)) {
	case "textarea":
		return "textarea"
	case "boolean":
		return "checkbox"
	case "date":
		return "date"
	case "file", "image":
		return "file"
	default:
		return "input"
	}
}

// Normalize fills inferred defaults in place: a blank type becomes "string"
// and a blank ui_type is inferred from the type.
func (f *Field) Normalize() {
	if strings.TrimSpace(f.Type) == "" {
		f.Type = "string"
	}
	if strings.TrimSpace(f.UIType) == "" {
		f.UIType = InferUIType(f.Type)
	}
}

// Normalize trims the entity name and normalizes every field in place.
func (e *Entity) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	for i := range e.Fields {
		e.Fields[i].Normalize()
	}
}

// Validate checks one entity's invariants: a non-empty entity name, at
// least one field, and non-empty, unique field names.
func (e Entity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("entity has no name")
	}
	if len(e.Fields) == 0 {
		return fmt.Errorf("entity %q has no fields", e.Name)
	}
	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		name := strings.TrimSpace(f.FieldName)
		if name == "" {
			return fmt.Errorf("entity %q: field %d has no field_name", e.Name, i)
		}
		if seen[name] {
			return fmt.Errorf("entity %q: duplicate field %q", e.Name, name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateSet checks cross-entity invariants for one generation run:
// a non-empty entity set and case-insensitive-unique entity names.
func ValidateSet(entities []Entity) error {
	if len(entities) == 0 {
		return fmt.Errorf("no entities found in schema input")
	}
	seen := make(map[string]string, len(entities))
	for _, e := range entities {
		if err := e.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("entity name %q collides with %q (names are case-insensitive)", e.Name, prev)
		}
		seen[key] = e.Name
	}
	return nil
}

// FileField returns the first file-valued field, if any. CRUD create and
// update bind upload handling to exactly one form field.
func (e Entity) FileField() (Field, bool) {
	return e.firstKind(KindFile)
}

// PasswordField returns the first password-valued field, if any.
func (e Entity) PasswordField() (Field, bool) {
	return e.firstKind(KindPassword)
}

// ReferenceFields returns all cross-reference fields in declaration order.
func (e Entity) ReferenceFields() []Field {
	var refs []Field
	for _, f := range e.Fields {
		if f.Kind() == KindReference {
			refs = append(refs, f)
		}
	}
	return refs
}

// SearchableFields returns all fields marked searchable in declaration order.
func (e Entity) SearchableFields() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

func (e Entity) firstKind(k Kind) (Field, bool) {
	for _, f := range e.Fields {
		if f.Kind() == k {
			return f, true
		}
	}
	return Field{}, false
}
