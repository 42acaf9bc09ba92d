package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/noirmenu/cardapio-digital/internal/database"
	"github.com/noirmenu/cardapio-digital/internal/menu"
	"github.com/noirmenu/cardapio-digital/internal/model"
	"github.com/noirmenu/cardapio-digital/internal/storage"
)

// setupDB conecta no banco apontado por DATABASE_URL. Sem a variável o
// teste é pulado, não falha: os caminhos que dependem de banco só rodam
// onde existe um Postgres de teste.
func setupDB(t *testing.T) string {
	t.Helper()
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL não configurada; pulando teste de banco")
	}
	if err := database.Connect(dsn); err != nil {
		t.Fatalf("falha ao conectar ao banco de teste: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("falha ao migrar o banco de teste: %v", err)
	}
	return dsn
}

func newAdminRouter(t *testing.T) (*gin.Engine, *AdminHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploads, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("falha ao preparar storage de teste: %v", err)
	}
	h := &AdminHandler{Storage: uploads, Log: zap.NewNop()}
	return gin.New(), h
}

func TestShowSettingsLazyCreation(t *testing.T) {
	setupDB(t)
	if err := database.DB.Exec("DELETE FROM menu_config").Error; err != nil {
		t.Fatalf("falha ao limpar menu_config: %v", err)
	}
	t.Cleanup(func() { database.DB.Exec("DELETE FROM menu_config") })

	router, h := newAdminRouter(t)
	router.GET("/admin/settings", h.ShowSettings)

	get := func() {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET /admin/settings status = %d, want %d", w.Code, http.StatusOK)
		}
	}

	// Primeira visita cria a linha; a segunda não pode duplicá-la.
	get()
	get()

	var count int64
	if err := database.DB.Model(&model.MenuConfig{}).Count(&count).Error; err != nil {
		t.Fatalf("falha ao contar menu_config: %v", err)
	}
	if count != 1 {
		t.Fatalf("menu_config tem %d linhas após carregar configurações, want 1", count)
	}

	var cfg model.MenuConfig
	if err := database.DB.First(&cfg).Error; err != nil {
		t.Fatalf("falha ao ler menu_config: %v", err)
	}
	if cfg.WhatsAppNumber != menu.PlaceholderWhatsApp {
		t.Errorf("WhatsAppNumber = %q, want %q", cfg.WhatsAppNumber, menu.PlaceholderWhatsApp)
	}
	if cfg.MinimumOrder != 0 {
		t.Errorf("MinimumOrder = %v, want 0", cfg.MinimumOrder)
	}
	if len(cfg.Neighborhoods) != 0 {
		t.Errorf("Neighborhoods = %v, want lista vazia", cfg.Neighborhoods)
	}
}

func TestProductCreateFetchRoundTrip(t *testing.T) {
	setupDB(t)

	category := model.Category{ID: uuid.New().String(), Name: "Pizzas de Teste", Order: 99}
	if err := database.DB.Create(&category).Error; err != nil {
		t.Fatalf("falha ao criar categoria de teste: %v", err)
	}
	t.Cleanup(func() {
		database.DB.Exec("DELETE FROM products WHERE category_id = ?", category.ID)
		database.DB.Exec("DELETE FROM categories WHERE id = ?", category.ID)
	})

	router, h := newAdminRouter(t)
	router.POST("/admin/products", h.CreateProduct)
	router.GET("/admin/products", h.ListProducts)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	for field, value := range map[string]string{
		"name":        "Pizza Quatro Queijos",
		"category_id": category.ID,
		"price":       "46.90",
		"description": "Muçarela, provolone, gorgonzola e parmesão",
		"available":   "true",
	} {
		mw.WriteField(field, value)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /admin/products status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /admin/products status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Products []model.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta não é JSON: %v", err)
	}

	var found *model.Product
	for i := range body.Products {
		if body.Products[i].Name == "Pizza Quatro Queijos" && body.Products[i].CategoryID == category.ID {
			found = &body.Products[i]
			break
		}
	}
	if found == nil {
		t.Fatal("produto criado não apareceu na listagem")
	}
	if math.Abs(found.Price-46.90) > 1e-9 {
		t.Errorf("Price = %v, want 46.90", found.Price)
	}
	if !found.Available {
		t.Error("Available = false, want true")
	}
}

// sessionCookieFor monta o cookie de sessão autenticada para o id dado.
func sessionCookieFor(t *testing.T, store *sessions.CookieStore, userID string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	session, _ := store.Get(req, sessionName)
	session.Values[userSessionKey] = userID
	if err := session.Save(req, w); err != nil {
		t.Fatalf("falha ao gravar sessão de teste: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("sessão de teste não gerou cookie")
	}
	return cookies[0]
}

func TestAuthRequiredDestroysOrphanSession(t *testing.T) {
	setupDB(t)
	gin.SetMode(gin.TestMode)

	store := sessions.NewCookieStore([]byte("segredo-de-teste"))
	h := &AuthHandler{Store: store, Log: zap.NewNop()}
	router := gin.New()
	router.GET("/admin", h.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Sessão aponta para um usuário que não existe mais.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookieFor(t, store, uuid.New().String()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if got := w.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("Location = %q, want /admin/login", got)
	}
}

func TestAuthRequiredKeepsSessionOnDatabaseError(t *testing.T) {
	dsn := setupDB(t)
	gin.SetMode(gin.TestMode)

	store := sessions.NewCookieStore([]byte("segredo-de-teste"))
	h := &AuthHandler{Store: store, Log: zap.NewNop()}
	router := gin.New()
	router.GET("/admin", h.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookieFor(t, store, uuid.New().String()))

	// Derruba a conexão para simular uma falha transitória do banco.
	sqlDB, err := database.DB.DB()
	if err != nil {
		t.Fatalf("falha ao obter sql.DB: %v", err)
	}
	sqlDB.Close()
	t.Cleanup(func() {
		if err := database.Connect(dsn); err != nil {
			t.Logf("falha ao reconectar ao banco de teste: %v", err)
		}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	// A falha não pode derrubar a sessão do admin.
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionName && cookie.MaxAge < 0 {
			t.Error("sessão foi destruída em uma falha transitória do banco")
		}
	}
}
