package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutorium/battle-server/auth"
	"github.com/edutorium/battle-server/models"
)

func TestSupabaseVerifierResolvesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc-123","user_metadata":{"username":"alice","avatar_url":"a.png"}}`))
	}))
	defer srv.Close()

	v := auth.NewSupabaseVerifier(srv.URL, "anon-key")
	user, err := v.Verify("user-token")

	require.NoError(t, err)
	assert.Equal(t, "abc-123", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a.png", user.Avatar)
}

func TestSupabaseVerifierUsernameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"abcdefgh-1234","user_metadata":{}}`))
	}))
	defer srv.Close()

	v := auth.NewSupabaseVerifier(srv.URL, "anon-key")
	user, err := v.Verify("user-token")

	require.NoError(t, err)
	assert.Equal(t, "Userabcdefgh", user.Username)
}

func TestSupabaseVerifierRejectsBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := auth.NewSupabaseVerifier(srv.URL, "anon-key")
	_, err := v.Verify("expired")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSupabaseVerifierRequiresToken(t *testing.T) {
	v := auth.NewSupabaseVerifier("http://localhost:0", "anon-key")
	_, err := v.Verify("")
	require.Error(t, err)
}

func signToken(t *testing.T, secret string, claims models.CustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifierRoundTrip(t *testing.T) {
	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ID:       "42",
		Username: "bob",
	}

	v := &auth.JWTVerifier{Secret: "test-secret"}
	user, err := v.Verify(signToken(t, "test-secret", claims))

	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "bob", user.Username)
}

func TestJWTVerifierRejectsWrongSecret(t *testing.T) {
	claims := models.CustomClaims{ID: "42", Username: "bob"}

	v := &auth.JWTVerifier{Secret: "right-secret"}
	_, err := v.Verify(signToken(t, "wrong-secret", claims))

	require.Error(t, err)
}

func TestJWTVerifierRejectsMissingID(t *testing.T) {
	claims := models.CustomClaims{Username: "bob"}

	v := &auth.JWTVerifier{Secret: "s"}
	_, err := v.Verify(signToken(t, "s", claims))

	require.Error(t, err)
}
