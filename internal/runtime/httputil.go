package runtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// parseListQuery extracts page, limit and search from query params, falling
// back to the generated defaults for missing or unusable values.
func parseListQuery(r *http.Request, op gen.ListOp) Query {
	q := Query{
		Page:         op.DefaultPage,
		Limit:        op.DefaultLimit,
		Search:       r.URL.Query().Get("search"),
		SearchFields: op.SearchFields,
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}
	// Remaining query params are exact-match field filters.
	for k, vs := range r.URL.Query() {
		switch k {
		case "page", "limit", "search":
			continue
		}
		if len(vs) > 0 && vs[0] != "" {
			if q.Filter == nil {
				q.Filter = make(map[string]string)
			}
			q.Filter[k] = vs[0]
		}
	}
	return q
}
