package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// SessionCookie is the cookie that carries the access token for browser clients
const SessionCookie = "folio_token"

// Identifier resolves an access token to an identity. A nil identity with a
// nil error means the token is not valid.
type Identifier interface {
	Identify(ctx context.Context, token string) (*model.Identity, error)
}

const identityHolderKey contextKey = "identityHolder"

// identityHolder lets Logger see the identity resolved further down the chain
type identityHolder struct {
	identity *model.Identity
}

// Authenticate resolves the request's credential into an identity and stores
// it in the context. It never rejects a request: anonymous access is decided
// by each handler.
func Authenticate(identifier Identifier) Middleware {
	return AuthenticateCookie(identifier, SessionCookie)
}

// AuthenticateCookie is Authenticate reading the session from cookieName
func AuthenticateCookie(identifier Identifier, cookieName string) Middleware {
	if cookieName == "" {
		cookieName = SessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := identifier.Identify(r.Context(), token)
			if err != nil {
				slog.Warn("failed to resolve identity",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
			}
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			if holder, ok := r.Context().Value(identityHolderKey).(*identityHolder); ok {
				holder.identity = identity
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireIdentity rejects requests without an identity with 401
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			model.NewUnauthorizedError("").WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a context carrying identity
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity extracts the identity from context, or nil for anonymous requests
func GetIdentity(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*model.Identity); ok {
		return identity
	}
	return nil
}

// tokenFrom reads a bearer token, falling back to the session cookie
func tokenFrom(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
