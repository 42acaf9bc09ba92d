package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := sessions.NewCookieStore([]byte("segredo-de-teste"))
	h := &AuthHandler{Store: store, Log: zap.NewNop()}

	router.GET("/admin/login", h.ShowLoginPage)
	router.POST("/admin/signup", h.ProcessSignup)
	return router
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// As validações de cadastro acontecem antes de qualquer ida ao banco;
// estes testes rodam sem conexão alguma.
func TestSignupRejectsPasswordMismatch(t *testing.T) {
	router := setupAuthRouter(t)

	w := postForm(t, router, "/admin/signup", url.Values{
		"email":            {"novo@noirmenu.com"},
		"password":         {"senha-123"},
		"confirm_password": {"outra-senha"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta não é JSON: %v", err)
	}
	if body["error"] != "As senhas não coincidem." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	router := setupAuthRouter(t)

	w := postForm(t, router, "/admin/signup", url.Values{
		"email":            {"novo@noirmenu.com"},
		"password":         {"12345"},
		"confirm_password": {"12345"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "pelo menos 6 caracteres") {
		t.Errorf("mensagem inesperada: %s", w.Body.String())
	}
}

func TestShowLoginPageWithoutSession(t *testing.T) {
	router := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta não é JSON: %v", err)
	}
	if body["authenticated"] != false {
		t.Errorf("authenticated = %v, want false", body["authenticated"])
	}
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := sessions.NewCookieStore([]byte("segredo-de-teste"))
	h := &AuthHandler{Store: store, Log: zap.NewNop()}

	router.GET("/admin", h.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if got := w.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("Location = %q, want /admin/login", got)
	}
}
