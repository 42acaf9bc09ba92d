package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noirmenu/cardapio-digital/internal/database"
	"github.com/noirmenu/cardapio-digital/internal/model"
)

const (
	sessionName    = "cardapio-session"
	userSessionKey = "userID"
)

type AuthHandler struct {
	Store *sessions.CookieStore
	Log   *zap.Logger
}

// ShowLoginPage informa o estado da sessão para a tela de login.
func (h *AuthHandler) ShowLoginPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, sessionName)
	_, authenticated := session.Values[userSessionKey].(string)
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}

// ProcessLogin autentica o administrador por e-mail e senha.
func (h *AuthHandler) ProcessLogin(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, sessionName)
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user model.User
	result := database.DB.Where("email = ?", email).First(&user)

	if result.Error != nil && errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "E-mail ou senha inválidos."})
		return
	}
	if result.Error != nil {
		h.Log.Error("erro ao buscar usuário no login", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Ocorreu um erro interno. Tente novamente."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "E-mail ou senha inválidos."})
		return
	}

	session.Values[userSessionKey] = user.ID
	if err := session.Save(c.Request, c.Writer); err != nil {
		h.Log.Error("erro ao salvar sessão de login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao iniciar a sessão. Tente novamente."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/admin"})
}

// ProcessSignup cria um administrador. As validações acontecem antes de
// qualquer ida ao banco.
func (h *AuthHandler) ProcessSignup(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if password != confirm {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "As senhas não coincidem."})
		return
	}
	if len(password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "A senha deve ter pelo menos 6 caracteres."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao processar a senha. Tente novamente."})
		return
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Este e-mail já está cadastrado."})
			return
		}
		h.Log.Error("erro ao criar usuário", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar usuário. Tente novamente."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Cadastro realizado com sucesso! Faça o login."})
}

// Logout encerra a sessão do administrador.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, sessionName)
	session.Values[userSessionKey] = nil
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		h.Log.Error("erro ao salvar sessão de logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao fazer logout."})
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired protege as rotas do painel: sessões não autenticadas são
// redirecionadas para a tela de login.
func (h *AuthHandler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := h.Store.Get(c.Request, sessionName)
		userID, ok := session.Values[userSessionKey].(string)
		if !ok || userID == "" {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		var user model.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Sessão órfã: força novo login.
				session.Values[userSessionKey] = nil
				session.Options.MaxAge = -1
				session.Save(c.Request, c.Writer)
				c.Redirect(http.StatusFound, "/admin/login")
				c.Abort()
				return
			}
			// Falha transitória do banco não derruba a sessão.
			h.Log.Error("erro ao validar sessão do admin", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Ocorreu um erro interno. Tente novamente."})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
