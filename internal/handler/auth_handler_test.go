package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/internal/testutil"
	"gorm.io/gorm"
)

func newAuthTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		"test-secret",
		24*time.Hour,
		720*time.Hour,
		"test",
		nil,
	)
	h := NewAuthHandler(authService)

	router := gin.New()
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/admin/login", h.AdminLogin)
	router.POST("/api/auth/logout", h.Logout)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)

	w := postJSON(router, "/api/auth/register",
		`{"email":"member@example.com","username":"fighter","password":"SecurePass123"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie, "registration must start a session")
	assert.True(t, cookie.HttpOnly)

	var resp struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/profile", resp.Redirect)
}

func TestRegisterEndpointConflict(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)

	w := postJSON(router, "/api/auth/register",
		`{"email":"member@example.com","password":"SecurePass123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/api/auth/register",
		`{"email":"member@example.com","password":"SecurePass123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)
	testutil.CreateTestUser(t, td.DB, "member@example.com", "SecurePass123", models.RoleUser)

	w := postJSON(router, "/api/auth/login",
		`{"identifier":"member@example.com","password":"SecurePass123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(w))
}

func TestLoginEndpointUniformError(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)
	testutil.CreateTestUser(t, td.DB, "member@example.com", "SecurePass123", models.RoleUser)

	unknown := postJSON(router, "/api/auth/login",
		`{"identifier":"nobody@example.com","password":"SecurePass123"}`)
	wrong := postJSON(router, "/api/auth/login",
		`{"identifier":"member@example.com","password":"WrongPass123"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	// The body must not reveal which part failed.
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestLoginEndpointNextHandling(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)
	testutil.CreateTestUser(t, td.DB, "member@example.com", "SecurePass123", models.RoleUser)

	tests := []struct {
		name     string
		next     string
		redirect string
	}{
		{"safe relative next", "/documents", "/documents"},
		{"external absolute", "https://evil.com/x", "/profile"},
		{"scheme relative", "//evil.com/x", "/profile"},
		{"admin area refused", "/admin/users", "/profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost,
				"/api/auth/login?next="+url.QueryEscape(tt.next),
				strings.NewReader(`{"identifier":"member@example.com","password":"SecurePass123"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Redirect string `json:"redirect"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.redirect, resp.Redirect)
		})
	}
}

func TestAdminLoginRejectsRegularMember(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)
	testutil.CreateTestUser(t, td.DB, "member@example.com", "SecurePass123", models.RoleUser)
	testutil.CreateTestUser(t, td.DB, "admin@example.com", "AdminPass123", models.RoleAdmin)

	w := postJSON(router, "/api/admin/login",
		`{"identifier":"member@example.com","password":"SecurePass123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/api/admin/login",
		`{"identifier":"admin@example.com","password":"AdminPass123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	router := newAuthTestRouter(td.DB)

	w := postJSON(router, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
