package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/logging"
)

var secret = []byte("test-secret")

const metadataURL = "https://mcp.example.com/.well-known/oauth-protected-resource"

func sign(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(scope string) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.example.com",
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"docspace-mcp"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Scope: scope,
	}
}

func TestVerify(t *testing.T) {
	v := NewVerifier(secret, "https://auth.example.com", "docspace-mcp")

	expired := validClaims("")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims("")
	noExpiry.ExpiresAt = nil

	wrongIssuer := validClaims("")
	wrongIssuer.Issuer = "https://evil.example.com"

	wrongAudience := validClaims("")
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: sign(t, secret, validClaims("files:read"))},
		{name: "wrong key", token: sign(t, []byte("other"), validClaims("")), wantErr: true},
		{name: "expired", token: sign(t, secret, expired), wantErr: true},
		{name: "no expiry", token: sign(t, secret, noExpiry), wantErr: true},
		{name: "wrong issuer", token: sign(t, secret, wrongIssuer), wantErr: true},
		{name: "wrong audience", token: sign(t, secret, wrongAudience), wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
			assert.Equal(t, []string{"files:read"}, claims.Scopes())
		})
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims("")).SignedString(secret)
	require.NoError(t, err)

	_, err = NewVerifier(secret, "", "").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasScopes(t *testing.T) {
	c := &Claims{Scope: "files:read  files:write"}
	assert.True(t, c.HasScopes(nil))
	assert.True(t, c.HasScopes([]string{"files:write"}))
	assert.False(t, c.HasScopes([]string{"files:write", "admin"}))
}

func protected(t *testing.T, scopes []string) (http.Handler, *string) {
	t.Helper()
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		token, ok := docspace.TokenFromContext(r.Context())
		require.True(t, ok)
		seen = claims.Subject + ":" + token
		w.WriteHeader(http.StatusNoContent)
	})
	mw := RequireBearer(NewVerifier(secret, "", ""), MiddlewareOptions{
		MetadataURL: metadataURL,
		Scopes:      scopes,
		Logger:      logging.Discard(),
	})
	return mw(next), &seen
}

func TestRequireBearer(t *testing.T) {
	good := sign(t, secret, validClaims("mcp"))

	tests := []struct {
		name          string
		header        string
		scopes        []string
		wantStatus    int
		wantChallenge string
	}{
		{
			name:          "missing token",
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: `Bearer resource_metadata="` + metadataURL + `"`,
		},
		{
			name:          "basic auth",
			header:        "Basic dXNlcjpwYXNz",
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: `Bearer resource_metadata="` + metadataURL + `"`,
		},
		{
			name:          "invalid token",
			header:        "Bearer nope",
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: `Bearer error="invalid_token", resource_metadata="` + metadataURL + `"`,
		},
		{
			name:          "insufficient scope",
			header:        "Bearer " + good,
			scopes:        []string{"mcp", "admin"},
			wantStatus:    http.StatusForbidden,
			wantChallenge: `Bearer error="insufficient_scope", scope="mcp admin", resource_metadata="` + metadataURL + `"`,
		},
		{
			name:       "valid",
			header:     "bearer " + good,
			scopes:     []string{"mcp"},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, seen := protected(t, tt.scopes)

			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantChallenge, rec.Header().Get("WWW-Authenticate"))
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "user-1:"+good, *seen)
			} else {
				assert.Empty(t, *seen)
			}
		})
	}
}

func TestMetadataHandler(t *testing.T) {
	h := MetadataHandler(Metadata{
		Resource:             "https://mcp.example.com",
		AuthorizationServers: []string{"https://auth.example.com"},
		ScopesSupported:      []string{"mcp"},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetadataPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "https://mcp.example.com", got["resource"])
	assert.Equal(t, []any{"https://auth.example.com"}, got["authorization_servers"])
	assert.Equal(t, []any{"header"}, got["bearer_methods_supported"])
}
