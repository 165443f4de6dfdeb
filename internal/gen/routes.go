package gen

import (
	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// LoginPath is the single fixed route the auth subsystem binds instead of a
// standard CRUD surface.
const LoginPath = "/api/auth/login"

// Operation names a route's bound CRUD operation.
type Operation string

const (
	OpCreate Operation = "create"
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpLogin  Operation = "login"
)

// Route binds one method/path pair to an operation. UploadField, when set,
// tells the transport to run multipart handling for that one form field
// before invoking the operation.
type Route struct {
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	Operation   Operation `json:"operation"`
	UploadField string    `json:"upload_field,omitempty"`
}

// RouteSet is the URL surface for one entity.
type RouteSet struct {
	Entity string  `json:"entity"`
	Slug   string  `json:"slug"`
	Auth   bool    `json:"auth,omitempty"`
	Routes []Route `json:"routes"`
}

// BuildRoutes derives the conventional CRUD route surface for an entity.
// For the recognized auth entity no standard CRUD surface is produced at
// all; the single login route stands in for it.
func BuildRoutes(e schema.Entity) RouteSet {
	slug := naming.Slug(e.Name)
	if naming.IsAuthEntity(e.Name) {
		return RouteSet{
			Entity: e.Name,
			Slug:   slug,
			Auth:   true,
			Routes: []Route{
				{Method: "POST", Path: LoginPath, Operation: OpLogin},
			},
		}
	}

	var uploadField string
	if f, ok := e.FileField(); ok {
		uploadField = f.FieldName
	}

	base := "/api/" + slug
	return RouteSet{
		Entity: e.Name,
		Slug:   slug,
		Routes: []Route{
			{Method: "POST", Path: base, Operation: OpCreate, UploadField: uploadField},
			{Method: "GET", Path: base, Operation: OpList},
			{Method: "GET", Path: base + "/{id}", Operation: OpGet},
			{Method: "PUT", Path: base + "/{id}", Operation: OpUpdate, UploadField: uploadField},
			{Method: "DELETE", Path: base + "/{id}", Operation: OpDelete},
		},
	}
}
