package gen

import (
	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// Widget names a form control variant.
type Widget string

const (
	WidgetCheckbox  Widget = "checkbox"
	WidgetDate      Widget = "date"
	WidgetRefSelect Widget = "ref_select"
	WidgetSelect    Widget = "select"
	WidgetFile      Widget = "file"
	WidgetRadio     Widget = "radio"
	WidgetTextarea  Widget = "textarea"
	WidgetText      Widget = "text"
	WidgetPassword  Widget = "password"
)

// CellRender names a list-column rendering variant.
type CellRender string

const (
	RenderYesNo CellRender = "yes_no"
	RenderDate  CellRender = "date"
	RenderRef   CellRender = "ref"
	RenderText  CellRender = "text"
)

// RefSource describes where a dependent select fetches its options: the
// referenced entity's list endpoint, labeled by the referenced record's
// name or title field with its identifier as fallback.
type RefSource struct {
	Entity      string   `json:"entity"`
	Endpoint    string   `json:"endpoint"`
	LabelFields []string `json:"label_fields"`
	ValueField  string   `json:"value_field"`
	// AllowNone offers an explicit empty option when the field is not
	// required.
	AllowNone bool `json:"allow_none"`
}

// FormField describes one form control.
type FormField struct {
	Name     string     `json:"name"`
	Label    string     `json:"label"`
	Widget   Widget     `json:"widget"`
	Required bool       `json:"required"`
	Options  []string   `json:"options,omitempty"`
	Ref      *RefSource `json:"ref,omitempty"`
	// Initial is the value the control starts from on a create form.
	Initial any `json:"initial"`
	// DateOnly tells the edit view to reformat the stored value to a
	// date-only form before handing it to the picker.
	DateOnly bool `json:"date_only,omitempty"`
}

// ListColumn describes one table column.
type ListColumn struct {
	Field  string     `json:"field"`
	Label  string     `json:"label"`
	Render CellRender `json:"render"`
	// LabelFields applies to RenderRef columns: the referenced record's
	// display fields, tried in order, with "N/A" when none resolve.
	LabelFields []string `json:"label_fields,omitempty"`
	// Truncate caps rendered width for RenderText columns.
	Truncate int `json:"truncate,omitempty"`
}

// RowAction describes a per-row action on the list view.
type RowAction struct {
	Name    string `json:"name"`
	Confirm string `json:"confirm,omitempty"`
}

// FormDescriptor drives the create/edit form for one entity.
type FormDescriptor struct {
	Title          string      `json:"title"`
	Fields         []FormField `json:"fields"`
	SubmitEndpoint string      `json:"submit_endpoint"`
	LoadEndpoint   string      `json:"load_endpoint"`
}

// ListDescriptor drives the table view for one entity. Deleting a row asks
// for confirmation and, on success, removes the row from the loaded result
// set and re-derives the current page.
type ListDescriptor struct {
	Title        string       `json:"title"`
	Endpoint     string       `json:"endpoint"`
	Columns      []ListColumn `json:"columns"`
	RowActions   []RowAction  `json:"row_actions"`
	PageSizes    []int        `json:"page_sizes"`
	DefaultLimit int          `json:"default_limit"`
}

// UIDescriptor is the per-entity output unit holding both the form and the
// list descriptor. The pair is idempotent-skipped together: if the unit
// exists, neither half is regenerated.
type UIDescriptor struct {
	Entity   string         `json:"entity"`
	TypeName string         `json:"type_name"`
	Slug     string         `json:"slug"`
	Form     FormDescriptor `json:"form"`
	List     ListDescriptor `json:"list"`
}

// refLabelFields is the display-field fallback chain for referenced
// records.
var refLabelFields = []string{"name", "title"}

// truncateWidth caps raw text cells on the list view.
const truncateWidth = 200

// BuildUI derives the form and list descriptors from an entity schema.
func BuildUI(e schema.Entity) UIDescriptor {
	slug := naming.Slug(e.Name)
	base := "/api/" + slug

	form := FormDescriptor{
		Title:          naming.Title(e.Name),
		Fields:         make([]FormField, 0, len(e.Fields)),
		SubmitEndpoint: base,
		LoadEndpoint:   base + "/{id}",
	}
	list := ListDescriptor{
		Title:    naming.PluralTitle(e.Name),
		Endpoint: base,
		Columns:  make([]ListColumn, 0, len(e.Fields)),
		RowActions: []RowAction{
			{Name: "edit"},
			{Name: "delete", Confirm: "Are you sure? This action cannot be undone."},
		},
		PageSizes:    []int{5, 10, 25},
		DefaultLimit: DefaultLimit,
	}

	for _, f := range e.Fields {
		form.Fields = append(form.Fields, buildFormField(f))
		list.Columns = append(list.Columns, buildListColumn(f))
	}

	return UIDescriptor{
		Entity:   e.Name,
		TypeName: naming.TypeName(e.Name),
		Slug:     slug,
		Form:     form,
		List:     list,
	}
}

func buildFormField(f schema.Field) FormField {
	ff := FormField{
		Name:     f.FieldName,
		Label:    f.Label,
		Required: f.Required,
		Initial:  "",
	}
	switch f.Kind() {
	case schema.KindBoolean:
		ff.Widget = WidgetCheckbox
		ff.Initial = false
	case schema.KindDate:
		ff.Widget = WidgetDate
		ff.DateOnly = true
	case schema.KindReference:
		ff.Widget = WidgetRefSelect
		refSlug := naming.Slug(f.Reference)
		ff.Ref = &RefSource{
			Entity:      refSlug,
			Endpoint:    "/api/" + refSlug,
			LabelFields: refLabelFields,
			ValueField:  "id",
			AllowNone:   !f.Required,
		}
	case schema.KindSelect:
		ff.Widget = WidgetSelect
		ff.Options = f.Options
	case schema.KindFile:
		ff.Widget = WidgetFile
		ff.Initial = nil
	case schema.KindRadio:
		ff.Widget = WidgetRadio
		ff.Options = f.Options
	case schema.KindLongText:
		ff.Widget = WidgetTextarea
	case schema.KindPassword:
		ff.Widget = WidgetPassword
	case schema.KindNumber, schema.KindText:
		ff.Widget = WidgetText
	default:
		ff.Widget = WidgetText
	}
	return ff
}

func buildListColumn(f schema.Field) ListColumn {
	col := ListColumn{Field: f.FieldName, Label: f.Label}
	switch f.Kind() {
	case schema.KindReference:
		col.Render = RenderRef
		col.LabelFields = refLabelFields
	case schema.KindBoolean:
		col.Render = RenderYesNo
	case schema.KindDate:
		col.Render = RenderDate
	default:
		col.Render = RenderText
		col.Truncate = truncateWidth
	}
	return col
}
