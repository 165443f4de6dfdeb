package runtime

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// maxUploadMemory bounds in-memory multipart buffering.
const maxUploadMemory = 32 << 20

// EntityHandler serves the generated CRUD surface for one entity. All
// behavior comes from the manifest entry: search fields, populate targets,
// the upload-bound field and the password field.
type EntityHandler struct {
	m       gen.EntityManifest
	store   Store
	uploads *Uploads
}

func NewEntityHandler(m gen.EntityManifest, store Store, uploads *Uploads) *EntityHandler {
	return &EntityHandler{m: m, store: store, uploads: uploads}
}

func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	op := h.m.Operations.Create
	data, ok := h.parsePayload(w, r, op.FileField)
	if !ok {
		return
	}
	if !h.hashPassword(w, data, op.PasswordField, op.HashCost) {
		return
	}

	now := time.Now().UTC()
	rec := Record{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now, Data: data}
	if err := h.store.Insert(r.Context(), h.m.Slug, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("creating %s: %v", h.m.Entity, err))
		return
	}
	writeJSON(w, http.StatusCreated, h.render(r.Context(), rec, op.Populate))
}

func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	op := h.m.Operations.List
	q := parseListQuery(r, op)

	recs, total, err := h.store.List(r.Context(), h.m.Slug, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("listing %s: %v", h.m.Entity, err))
		return
	}
	data := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		data = append(data, h.render(r.Context(), rec, op.Populate))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.render(r.Context(), rec, h.m.Operations.Get.Populate))
}

func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.fetch(w, r)
	if !ok {
		return
	}
	op := h.m.Operations.Update
	patch, ok := h.parsePayload(w, r, op.FileField)
	if !ok {
		return
	}
	// A blank submitted password keeps the stored hash.
	if op.PasswordField != "" {
		if v, present := patch[op.PasswordField]; present {
			if s, _ := v.(string); s == "" {
				delete(patch, op.PasswordField)
			}
		}
	}
	if !h.hashPassword(w, patch, op.PasswordField, op.HashCost) {
		return
	}

	data := maps.Clone(existing.Data)
	if data == nil {
		data = make(map[string]any, len(patch))
	}
	maps.Copy(data, patch)

	rec, err := h.store.Update(r.Context(), h.m.Slug, existing.ID, data)
	if errors.Is(err, ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("updating %s: %v", h.m.Entity, err))
		return
	}
	writeJSON(w, http.StatusOK, h.render(r.Context(), rec, op.Populate))
}

func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.Delete(r.Context(), h.m.Slug, id)
	if errors.Is(err, ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("deleting %s: %v", h.m.Entity, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": h.m.Model.TypeName + " deleted successfully",
	})
}

func (h *EntityHandler) fetch(w http.ResponseWriter, r *http.Request) (Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.Get(r.Context(), h.m.Slug, id)
	if errors.Is(err, ErrNotFound) {
		h.notFound(w)
		return Record{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("loading %s: %v", h.m.Entity, err))
		return Record{}, false
	}
	return rec, true
}

func (h *EntityHandler) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", h.m.Model.TypeName+" not found")
}

// parsePayload reads the request body as a field map. Multipart bodies are
// accepted when the route binds an upload field: form values become string
// fields and the uploaded file, when present, is stored and its path
// written over the field's value.
func (h *EntityHandler) parsePayload(w http.ResponseWriter, r *http.Request, uploadField string) (map[string]any, bool) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "multipart/") {
		var data map[string]any
		if err := decodeJSON(r, &data); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return nil, false
		}
		if data == nil {
			data = map[string]any{}
		}
		return data, true
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return nil, false
	}
	data := make(map[string]any, len(r.MultipartForm.Value))
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			data[k] = vs[0]
		}
	}
	if uploadField != "" && h.uploads != nil {
		file, header, err := r.FormFile(uploadField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// no new file submitted
		case err != nil:
			writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
			return nil, false
		default:
			defer file.Close()
			stored, err := h.uploads.Save(uploadField, file, header)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
				return nil, false
			}
			data[uploadField] = stored
		}
	}
	return data, true
}

// hashPassword replaces a non-empty password value with its bcrypt hash.
// Reports false after writing an error response.
func (h *EntityHandler) hashPassword(w http.ResponseWriter, data map[string]any, field string, cost int) bool {
	if field == "" {
		return true
	}
	plain, _ := data[field].(string)
	if plain == "" {
		return true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("hashing password: %v", err))
		return false
	}
	data[field] = string(hash)
	return true
}

// render merges a record into its response shape and resolves populate
// references. A reference that no longer resolves keeps its raw id.
func (h *EntityHandler) render(ctx context.Context, rec Record, refs []gen.PopulateRef) map[string]any {
	out := recordJSON(rec)
	for _, ref := range refs {
		id, _ := out[ref.Field].(string)
		if id == "" {
			continue
		}
		target, err := h.store.Get(ctx, ref.Entity, id)
		if err != nil {
			continue
		}
		out[ref.Field] = recordJSON(target)
	}
	return out
}

func recordJSON(rec Record) map[string]any {
	out := make(map[string]any, len(rec.Data)+3)
	maps.Copy(out, rec.Data)
	out["id"] = rec.ID
	out["created_at"] = rec.CreatedAt.UTC().Format(time.RFC3339)
	out["updated_at"] = rec.UpdatedAt.UTC().Format(time.RFC3339)
	return out
}
