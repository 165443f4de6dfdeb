package runtime

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// NewRouter mounts the full generated surface described by the manifest:
// every entity's CRUD routes, the login route when an auth subsystem was
// generated, and static serving of stored uploads. The manifest is the
// single source of the URL surface.
func NewRouter(m gen.Manifest, store Store, uploads *Uploads, secret []byte) (chi.Router, error) {
	r := chi.NewRouter()

	for _, em := range m.Entities {
		h := NewEntityHandler(em, store, uploads)
		for _, rt := range em.Routes.Routes {
			fn, err := bindOperation(h, rt.Operation)
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", em.Slug, err)
			}
			r.MethodFunc(rt.Method, rt.Path, fn)
		}
	}

	if m.Auth != nil {
		ah := NewAuthHandler(*m.Auth, store, secret)
		r.Post(m.Auth.LoginPath, ah.Login)
	}

	if uploads != nil {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(uploads.Dir()))))
	}

	return r, nil
}

func bindOperation(h *EntityHandler, op gen.Operation) (http.HandlerFunc, error) {
	switch op {
	case gen.OpCreate:
		return h.Create, nil
	case gen.OpList:
		return h.List, nil
	case gen.OpGet:
		return h.Get, nil
	case gen.OpUpdate:
		return h.Update, nil
	case gen.OpDelete:
		return h.Delete, nil
	default:
		return nil, fmt.Errorf("unmappable operation %q", op)
	}
}
