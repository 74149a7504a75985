// Package httpidentity mounts AppIdentity proof verification on
// net/http handlers.
package httpidentity

import (
	"context"
	"net/http"

	"gitlab.com/caffeinatedjack/appidentity/pkg/appidentity"
)

// DefaultHeader is the request header carrying the proof when no other
// header is configured.
const DefaultHeader = "Application-Identity"

type contextKey struct{}

// Options configures the middleware. Finder is required.
type Options struct {
	// Header names the request header carrying the proof. Defaults to
	// DefaultHeader.
	Header string

	// Finder resolves the app a parsed proof claims to belong to. A nil
	// result with a nil error means the app is unknown and the request
	// is rejected.
	Finder appidentity.Finder
}

// RequireIdentity returns middleware that verifies the proof header in
// soft mode before passing the request on. The verified App is stored in
// the request context for FromContext. Requests with a missing, unknown,
// or unverifiable proof receive 401; finder failures receive 500.
func RequireIdentity(opts Options) func(http.Handler) http.Handler {
	header := opts.Header
	if header == "" {
		header = DefaultHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(header)
			if raw == "" {
				unauthorized(w)
				return
			}

			proof, err := appidentity.ParseProof(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			source, err := opts.Finder(r.Context(), proof)
			if err != nil {
				http.Error(w, "identity lookup failed", http.StatusInternalServerError)
				return
			}
			if source == nil {
				unauthorized(w)
				return
			}

			app, err := appidentity.CheckProof(proof, source)
			if err != nil || app == nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, app)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the verified App stored by RequireIdentity.
func FromContext(ctx context.Context) (*appidentity.App, bool) {
	app, ok := ctx.Value(contextKey{}).(*appidentity.App)
	return app, ok
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
