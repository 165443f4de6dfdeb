package gen

import (
	"fmt"

	"github.com/matthewbaird/sheetforge/internal/naming"
	"github.com/matthewbaird/sheetforge/internal/schema"
)

// CaptchaSpec describes the login challenge: a fixed-length code drawn
// from an alphabet that omits the lookalikes 0, 1, I and O.
type CaptchaSpec struct {
	Length   int    `json:"length"`
	Alphabet string `json:"alphabet"`
}

// DefaultCaptcha is the challenge every generated login screen uses.
var DefaultCaptcha = CaptchaSpec{
	Length:   6,
	Alphabet: "ABCDEFGHJKLMNPQRSTUVWXYZ23456789",
}

// AuthDescriptor is the artifact emitted for the auth entity. It carries
// everything the runtime needs to mount the login flow and guard UI
// routes.
type AuthDescriptor struct {
	Entity        string      `json:"entity"`
	Slug          string      `json:"slug"`
	IdentityField string      `json:"identity_field"`
	PasswordField string      `json:"password_field"`
	LoginPath     string      `json:"login_path"`
	TokenTTLHours int         `json:"token_ttl_hours"`
	Captcha       CaptchaSpec `json:"captcha"`
	// GuardRedirect is where unauthenticated navigation lands.
	GuardRedirect string `json:"guard_redirect"`
}

// TokenTTLHours is the issued session token lifetime.
const TokenTTLHours = 24

// BuildAuth derives the auth descriptor from the auth entity. It fails
// when the entity does not carry exactly one identity field and exactly
// one password field; the caller records the error as a warning and skips
// the login subsystem rather than aborting the run.
func BuildAuth(e schema.Entity) (AuthDescriptor, error) {
	var identity, password []string
	for _, f := range e.Fields {
		if f.IsIdentity() {
			identity = append(identity, f.FieldName)
		}
		if f.Kind() == schema.KindPassword {
			password = append(password, f.FieldName)
		}
	}
	if len(identity) != 1 {
		return AuthDescriptor{}, fmt.Errorf("auth entity %q: want exactly one identity field, have %d", e.Name, len(identity))
	}
	if len(password) != 1 {
		return AuthDescriptor{}, fmt.Errorf("auth entity %q: want exactly one password field, have %d", e.Name, len(password))
	}
	return AuthDescriptor{
		Entity:        e.Name,
		Slug:          naming.Slug(e.Name),
		IdentityField: identity[0],
		PasswordField: password[0],
		LoginPath:     LoginPath,
		TokenTTLHours: TokenTTLHours,
		Captcha:       DefaultCaptcha,
		GuardRedirect: "/login",
	}, nil
}
