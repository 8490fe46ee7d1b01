package oauth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
)

// MetadataPath is where the protected resource metadata is served
const MetadataPath = "/.well-known/oauth-protected-resource"

// Metadata is the protected resource metadata document
type Metadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers,omitempty"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
}

// MetadataHandler serves m as JSON
func MetadataHandler(m Metadata) http.Handler {
	if m.BearerMethodsSupported == nil {
		m.BearerMethodsSupported = []string{"header"}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m)
	})
}

// MiddlewareOptions configures RequireBearer
type MiddlewareOptions struct {
	// MetadataURL is advertised in the WWW-Authenticate header
	MetadataURL string
	Scopes      []string
	Logger      *slog.Logger
}

// RequireBearer rejects requests without a valid bearer token. Verified
// claims and the raw token are stored in the request context, so DocSpace
// calls made while serving the request carry the caller's token.
func RequireBearer(v *Verifier, opts MiddlewareOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				challenge(w, opts, "", http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("rejected bearer token", "error", err, "remote_addr", r.RemoteAddr)
				challenge(w, opts, "invalid_token", http.StatusUnauthorized, "invalid token")
				return
			}
			if !claims.HasScopes(opts.Scopes) {
				challenge(w, opts, "insufficient_scope", http.StatusForbidden, "insufficient scope")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = docspace.WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

func challenge(w http.ResponseWriter, opts MiddlewareOptions, code string, status int, msg string) {
	var params []string
	if code != "" {
		params = append(params, fmt.Sprintf("error=%q", code))
	}
	if len(opts.Scopes) > 0 {
		params = append(params, fmt.Sprintf("scope=%q", strings.Join(opts.Scopes, " ")))
	}
	if opts.MetadataURL != "" {
		params = append(params, fmt.Sprintf("resource_metadata=%q", opts.MetadataURL))
	}

	value := "Bearer"
	if len(params) > 0 {
		value += " " + strings.Join(params, ", ")
	}
	w.Header().Set("WWW-Authenticate", value)
	http.Error(w, msg, status)
}
