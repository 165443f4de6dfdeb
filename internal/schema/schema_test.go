package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldKind_Priority(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  Kind
	}{
		{"boolean", Field{FieldName: "active", Type: "boolean"}, KindBoolean},
		{"date", Field{FieldName: "dob", Type: "date"}, KindDate},
		{"reference wins over declared type", Field{FieldName: "brand", Type: "string", Reference: "Brands"}, KindReference},
		{"objectid without reference", Field{FieldName: "owner", Type: "ObjectId"}, KindReference},
		{"select with options", Field{FieldName: "size", Type: "string", UIType: "select", Options: []string{"S", "M"}}, KindSelect},
		{"select without options falls through", Field{FieldName: "size", Type: "string", UIType: "select"}, KindText},
		{"image type", Field{FieldName: "photo", Type: "image"}, KindFile},
		{"file ui hint", Field{FieldName: "doc", Type: "string", UIType: "file"}, KindFile},
		{"radio with options", Field{FieldName: "gender", Type: "string", UIType: "radio", Options: []string{"a", "b"}}, KindRadio},
		{"textarea", Field{FieldName: "bio", Type: "textarea"}, KindLongText},
		{"password", Field{FieldName: "pass", Type: "password"}, KindPassword},
		{"number", Field{FieldName: "price", Type: "number"}, KindNumber},
		{"default", Field{FieldName: "title", Type: "string"}, KindText},
		{"boolean wins over reference", Field{FieldName: "odd", Type: "boolean", Reference: "Brands"}, KindBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Kind())
		})
	}
}

func TestInferUIType(t *testing.T) {
	assert.Equal(t, "textarea", InferUIType("textarea"))
	assert.Equal(t, "checkbox", InferUIType("boolean"))
	assert.Equal(t, "date", InferUIType("date"))
	assert.Equal(t, "file", InferUIType("file"))
	assert.Equal(t, "file", InferUIType("image"))
	assert.Equal(t, "input", InferUIType("password"))
	assert.Equal(t, "input", InferUIType("email"))
	assert.Equal(t, "input", InferUIType(""))
}

func TestNormalize(t *testing.T) {
	f := Field{FieldName: "title"}
	f.Normalize()
	assert.Equal(t, "string", f.Type)
	assert.Equal(t, "input", f.UIType)

	f = Field{FieldName: "photo", Type: "image", UIType: "custom"}
	f.Normalize()
	assert.Equal(t, "custom", f.UIType, "explicit ui_type must not be overwritten")
}

func TestEntityValidate(t *testing.T) {
	valid := Entity{Name: "Product", Fields: []Field{{FieldName: "title"}}}
	require.NoError(t, valid.Validate())

	assert.Error(t, Entity{Name: "", Fields: []Field{{FieldName: "x"}}}.Validate())
	assert.Error(t, Entity{Name: "Empty"}.Validate())
	assert.Error(t, Entity{Name: "Product", Fields: []Field{{FieldName: ""}}}.Validate())
	assert.Error(t, Entity{Name: "Product", Fields: []Field{{FieldName: "a"}, {FieldName: "a"}}}.Validate())
}

func TestValidateSet(t *testing.T) {
	assert.Error(t, ValidateSet(nil), "empty input aborts the run")

	dup := []Entity{
		{Name: "Products", Fields: []Field{{FieldName: "a"}}},
		{Name: " products ", Fields: []Field{{FieldName: "a"}}},
	}
	assert.Error(t, ValidateSet(dup), "entity names are case-insensitive-unique")

	ok := []Entity{
		{Name: "Products", Fields: []Field{{FieldName: "a"}}},
		{Name: "Brands", Fields: []Field{{FieldName: "b"}}},
	}
	assert.NoError(t, ValidateSet(ok))
}

func TestEntityAccessors(t *testing.T) {
	e := Entity{Name: "Users", Fields: []Field{
		{FieldName: "name", Type: "string", Searchable: true},
		{FieldName: "avatar", Type: "image"},
		{FieldName: "group", Type: "string", Reference: "User Groups"},
		{FieldName: "password", Type: "password"},
		{FieldName: "email", Type: "email", Searchable: true},
	}}

	file, ok := e.FileField()
	require.True(t, ok)
	assert.Equal(t, "avatar", file.FieldName)

	pass, ok := e.PasswordField()
	require.True(t, ok)
	assert.Equal(t, "password", pass.FieldName)

	refs := e.ReferenceFields()
	require.Len(t, refs, 1)
	assert.Equal(t, "group", refs[0].FieldName)

	search := e.SearchableFields()
	require.Len(t, search, 2)
	assert.Equal(t, "name", search[0].FieldName)
	assert.Equal(t, "email", search[1].FieldName)
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, Field{UIType: "login:identity"}.IsIdentity())
	assert.True(t, Field{UIType: " LOGIN:IDENTITY "}.IsIdentity())
	assert.False(t, Field{UIType: "input"}.IsIdentity())
}
