package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provamaster/provamaster/internal/rbac"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")

	tok, err := svc.IssueJWT("user-1", "student")
	require.NoError(t, err)

	claims, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "student", claims.Role)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("user-1", "student")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddlewareAttachesSubjectAndRole(t *testing.T) {
	svc := NewAuthService("test-secret")
	tok, err := svc.IssueJWT("user-1", "admin")
	require.NoError(t, err)

	var gotSub, gotRole string
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/packages", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotSub)
	assert.Equal(t, "admin", gotRole)
}

func TestJWTMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	svc := NewAuthService("test-secret")
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/packages", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/packages", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionHandlerReportsClaims(t *testing.T) {
	svc := NewAuthService("test-secret")
	tok, err := svc.IssueJWT("user-1", "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	SessionHandler(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"user-1"`)
}

func TestSignOutIsIdempotent(t *testing.T) {
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()
		SignOutHandler()(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}
