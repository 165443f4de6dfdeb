// Package naming derives the identifier variants used across generated
// artifacts. Every emitter goes through these functions so that artifacts
// which cross-reference each other by name (e.g. a foreign-key column
// pointing at another entity's schema declaration) agree on the exact form.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TypeName converts a raw entity or field name to its type-name form:
// non-alphanumerics are treated as word breaks, each word gets its first
// letter capitalized with the rest left untouched, and the words are joined
// with no separator ("admin users" → "AdminUsers", "CMS pages" →
// "CMSPages"). TypeName is idempotent: TypeName(TypeName(s)) == TypeName(s).
func TypeName(raw string) string {
	words := strings.Fields(stripToWords(raw))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, "")
}

// Slug converts a raw name to the lowercase, hyphenated form used as a URL
// path segment and as the persistence lookup key.
func Slug(raw string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	return strings.Join(fields, "-")
}

// Title converts a raw name to a human-facing label: hyphens and underscores
// become spaces and the first letter of every word is capitalized.
func Title(raw string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(raw)
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// PluralTitle is Title with the final word pluralized, used for list-view
// headings and menu labels ("product" → "Products", "cms page" → "Cms Pages").
func PluralTitle(raw string) string {
	t := Title(raw)
	if t == "" {
		return ""
	}
	words := strings.Fields(t)
	words[len(words)-1] = inflection.Plural(words[len(words)-1])
	return strings.Join(words, " ")
}

// IsAuthEntity reports whether a raw entity name designates the reserved
// authentication entity. The comparison is the single activation predicate
// for the auth subsystem: lowercase, whitespace-trimmed equality.
func IsAuthEntity(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == AuthEntityName
}

// AuthEntityName is the reserved entity name that diverts an entity to the
// auth subsystem emitter instead of standard CRUD emission.
const AuthEntityName = "authusers"

// stripToWords replaces every non-alphanumeric rune with a space. Camel
// boundaries inside a word are left alone: an already-converted name passes
// through unchanged.
func stripToWords(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}
