package runtime

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/matthewbaird/sheetforge/internal/gen"
)

// AuthHandler serves the generated login route. Which fields carry the
// identity and the password comes from the auth descriptor.
type AuthHandler struct {
	desc   gen.AuthDescriptor
	store  Store
	secret []byte
}

func NewAuthHandler(desc gen.AuthDescriptor, store Store, secret []byte) *AuthHandler {
	return &AuthHandler{desc: desc, store: store, secret: secret}
}

// Login checks the submitted credentials against the stored auth records
// and issues a signed token. Unknown identity and wrong password produce
// the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	identity := body[h.desc.IdentityField]
	password := body[h.desc.PasswordField]
	if identity == "" || password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Please provide all required fields.")
		return
	}

	user, err := h.store.FindByField(r.Context(), h.desc.Slug, h.desc.IdentityField, identity)
	if errors.Is(err, ErrNotFound) {
		h.invalidCredentials(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("login: %v", err))
		return
	}

	hash, _ := user.Data[h.desc.PasswordField].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		h.invalidCredentials(w)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("signing token: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) invalidCredentials(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
}

func (h *AuthHandler) issueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(h.desc.TokenTTLHours) * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// VerifyToken parses and validates a token issued by Login, returning the
// record id it was issued for.
func (h *AuthHandler) VerifyToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return h.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
