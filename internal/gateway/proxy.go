package gateway

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/pkg/kit"
)

type ctxKey string

const (
	operatorIDKey   ctxKey = "operator_id"
	operatorRoleKey ctxKey = "operator_role"
)

func OperatorIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorIDKey).(string)
	return v, ok
}

func OperatorRoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorRoleKey).(string)
	return v, ok
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// RequireTokenForWrites lets reads through anonymously and demands a valid
// operator token for every other method.
func RequireTokenForWrites(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := kit.BearerToken(r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}
			claims, err := jwt.Parse(raw)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), operatorIDKey, claims.OperatorID)
			ctx = context.WithValue(ctx, operatorRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("upstream failed", zap.String("upstream", u.Host), zap.String("path", r.URL.Path), zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
	}
	return p, nil
}

// InjectHeaders replaces any client supplied identity headers with the
// operator resolved by RequireTokenForWrites.
func InjectHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del("X-User-Id")
		r.Header.Del("X-User-Role")

		if id, ok := OperatorIDFromContext(r.Context()); ok && id != "" {
			r.Header.Set("X-User-Id", id)
		}
		if role, ok := OperatorRoleFromContext(r.Context()); ok && role != "" {
			r.Header.Set("X-User-Role", role)
		}

		next.ServeHTTP(w, r)
	})
}
