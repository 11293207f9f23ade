package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

type Authenticator struct {
	tokens   *TokenIssuer
	revoked  RevocationChecker
	resolver *Resolver
	logger   *zap.Logger
}

func NewAuthenticator(tokens *TokenIssuer, revoked RevocationChecker, resolver *Resolver, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, revoked: revoked, resolver: resolver, logger: logger}
}

// Middleware rejects requests without a live session and attaches the
// resolved Identity. An account without a restaurant still passes.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			http.Error(w, ErrNotAuthenticated.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := a.tokens.Parse(raw)
		if err != nil {
			http.Error(w, ErrNotAuthenticated.Error(), http.StatusUnauthorized)
			return
		}

		if a.revoked != nil {
			revoked, err := a.revoked.IsRevoked(r.Context(), claims)
			if err != nil {
				a.logger.Error("revocation check failed", zap.String("account_id", claims.Subject), zap.Error(err))
				http.Error(w, "session check failed", http.StatusInternalServerError)
				return
			}
			if revoked {
				http.Error(w, ErrNotAuthenticated.Error(), http.StatusUnauthorized)
				return
			}
		}

		identity, err := a.resolver.Resolve(r.Context(), claims.Subject)
		if err != nil && !errors.Is(err, ErrNoRestaurantForOwner) {
			a.logger.Error("identity resolution failed", zap.String("account_id", claims.Subject), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ctx := WithClaims(WithIdentity(r.Context(), identity), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads the Authorization header; websocket clients that cannot
// set headers may pass access_token in the query string instead.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}
