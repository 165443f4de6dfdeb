package gen

import (
	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// HashCost is the bcrypt cost factor applied to password-valued fields on
// create and update.
const HashCost = 10

// Default pagination applied when the list request carries no usable values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PopulateRef names a cross-reference field and the slug of the entity it
// resolves against. List, get, create and update responses embed the
// referenced record under the field name.
type PopulateRef struct {
	Field  string `json:"field"`
	Entity string `json:"entity"`
}

// CreateOp defines the create operation: payload in, stored record out.
// When FileField is set and the request carried an upload, the payload's
// value for that field is replaced with the stored file path. When
// PasswordField is set and the payload value is non-empty, it is replaced
// with a one-way hash before persistence.
type CreateOp struct {
	FileField     string        `json:"file_field,omitempty"`
	PasswordField string        `json:"password_field,omitempty"`
	HashCost      int           `json:"hash_cost,omitempty"`
	Populate      []PopulateRef `json:"populate,omitempty"`
}

// ListOp defines pagination, search and sort for the list operation.
// SearchFields are OR-combined: a single search term matches a record when
// any searchable field contains it case-insensitively.
type ListOp struct {
	DefaultPage  int           `json:"default_page"`
	DefaultLimit int           `json:"default_limit"`
	SearchFields []string      `json:"search_fields,omitempty"`
	SortField    string        `json:"sort_field"`
	SortDesc     bool          `json:"sort_desc"`
	Populate     []PopulateRef `json:"populate,omitempty"`
}

// GetOp defines the fetch-by-identifier operation.
type GetOp struct {
	Populate []PopulateRef `json:"populate,omitempty"`
}

// UpdateOp defines the update operation. Payload transformation matches
// CreateOp except that an empty password value leaves the stored hash
// untouched instead of clearing it.
type UpdateOp struct {
	FileField     string        `json:"file_field,omitempty"`
	PasswordField string        `json:"password_field,omitempty"`
	HashCost      int           `json:"hash_cost,omitempty"`
	Populate      []PopulateRef `json:"populate,omitempty"`
}

// DeleteOp defines the removal-by-identifier operation.
type DeleteOp struct{}

// OperationSet is the full CRUD definition for one entity. Each member is
// emitted as its own artifact and independently idempotent-skipped.
type OperationSet struct {
	Entity   string   `json:"entity"`
	TypeName string   `json:"type_name"`
	Slug     string   `json:"slug"`
	Create   CreateOp `json:"create"`
	List     ListOp   `json:"list"`
	Get      GetOp    `json:"get"`
	Update   UpdateOp `json:"update"`
	Delete   DeleteOp `json:"delete"`
}

// BuildOperations derives the five standard operations from an entity
// schema.
func BuildOperations(e schema.Entity) OperationSet {
	populate := populateRefs(e)

	var fileField, passwordField string
	if f, ok := e.FileField(); ok {
		fileField = f.FieldName
	}
	var hashCost int
	if f, ok := e.PasswordField(); ok {
		passwordField = f.FieldName
		hashCost = HashCost
	}

	var searchFields []string
	for _, f := range e.SearchableFields() {
		searchFields = append(searchFields, f.FieldName)
	}

	return OperationSet{
		Entity:   e.Name,
		TypeName: naming.TypeName(e.Name),
		Slug:     naming.Slug(e.Name),
		Create: CreateOp{
			FileField:     fileField,
			PasswordField: passwordField,
			HashCost:      hashCost,
			Populate:      populate,
		},
		List: ListOp{
			DefaultPage:  DefaultPage,
			DefaultLimit: DefaultLimit,
			SearchFields: searchFields,
			SortField:    "created_at",
			SortDesc:     true,
			Populate:     populate,
		},
		Get: GetOp{Populate: populate},
		Update: UpdateOp{
			FileField:     fileField,
			PasswordField: passwordField,
			HashCost:      hashCost,
			Populate:      populate,
		},
	}
}

func populateRefs(e schema.Entity) []PopulateRef {
	var refs []PopulateRef
	for _, f := range e.ReferenceFields() {
		if f.Reference == "" {
			continue
		}
		refs = append(refs, PopulateRef{
			Field:  f.FieldName,
			Entity: naming.Slug(f.Reference),
		})
	}
	return refs
}
