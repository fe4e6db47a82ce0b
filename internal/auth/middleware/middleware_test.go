package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/populism-atlas/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("secret", time.Hour)
	tok, err := a.IssueJWT("alice", RoleAdmin)
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Sub)
	assert.Equal(t, RoleAdmin, c.Role)

	_, err = NewAuthService("other", time.Hour).Parse(tok)
	assert.Error(t, err, "token signed with a different key")
}

func TestParse_Expired(t *testing.T) {
	a := NewAuthService("secret", time.Minute)
	a.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := a.IssueJWT("bob", RoleViewer)
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("secret", time.Hour)
	var gotRole, gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSub = SubjectFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _ := a.IssueJWT("viewer|1", RoleViewer)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, RoleViewer, gotRole)
	assert.Equal(t, "viewer|1", gotSub)
}

func TestAnonymousRole(t *testing.T) {
	var got string
	h := AnonymousRole(RoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = rbac.RoleFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, RoleViewer, got)
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	a := NewAuthService("secret", time.Hour)
	h := LoginHandler(a, "admin", string(hash))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"username":"admin","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body)))
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"role":"admin"`)
			}
		})
	}

	rec := httptest.NewRecorder()
	LoginHandler(a, "admin", "").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":""}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
