package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

// Claims is the subset of the hosted auth provider's access token we rely on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ProfileEnsurer creates the profile row for a first-time user.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, user domain.User) error
}

// Authenticator verifies HS256 bearer tokens and resolves them to a domain.User.
type Authenticator struct {
	secret   []byte
	profiles ProfileEnsurer
	seen     sync.Map
}

func NewAuthenticator(secret string, profiles ProfileEnsurer) *Authenticator {
	return &Authenticator{secret: []byte(secret), profiles: profiles}
}

// IssueToken signs a token for user. Used by local tooling and tests.
func (a *Authenticator) IssueToken(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates tokenStr and returns the caller it names.
func (a *Authenticator) Parse(tokenStr string) (domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.User{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.User{}, errors.New("invalid token claims")
	}
	return domain.User{ID: claims.Subject, Email: claims.Email}, nil
}

// Middleware requires a bearer token. Browsers cannot set headers on a
// websocket handshake, so the access_token query parameter is accepted too.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			raw = r.URL.Query().Get("access_token")
		}
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "missing bearer token"})
			return
		}
		user, err := a.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "invalid token"})
			return
		}
		a.ensure(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func (a *Authenticator) ensure(ctx context.Context, user domain.User) {
	if a.profiles == nil {
		return
	}
	if _, ok := a.seen.Load(user.ID); ok {
		return
	}
	if err := a.profiles.EnsureProfile(ctx, user); err != nil {
		log.Printf("ensure profile for %s: %v", user.ID, err)
		return
	}
	a.seen.Store(user.ID, struct{}{})
}

// UserFrom returns the authenticated caller stored by Middleware.
func UserFrom(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(domain.User)
	return user, ok
}

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, user domain.User) (bool, error)
}

// RequireAdmin rejects callers whose profile is not an admin.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := UserFrom(r.Context())
			ok, err := checker.IsAdmin(r.Context(), user)
			if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
				writeError(w, err)
				return
			}
			if !ok {
				writeError(w, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
