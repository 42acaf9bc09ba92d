package main

import (
	"context"
	"encoding/gob"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/noirmenu/cardapio-digital/internal/config"
	"github.com/noirmenu/cardapio-digital/internal/database"
	"github.com/noirmenu/cardapio-digital/internal/handler"
	"github.com/noirmenu/cardapio-digital/internal/menu"
	"github.com/noirmenu/cardapio-digital/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("falha ao iniciar logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		logger.Fatal("falha ao conectar ao banco de dados", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("falha ao executar migrações", zap.Error(err))
	}
	if err := database.InstallTriggers(); err != nil {
		logger.Fatal("falha ao instalar gatilhos de notificação", zap.Error(err))
	}
	if err := database.SeedAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("falha ao criar usuário admin", zap.Error(err))
	}
	logger.Info("banco de dados pronto")

	uploads, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Fatal("falha ao preparar diretório de uploads", zap.Error(err))
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	gob.Register(map[string]int{})

	aggregator := menu.NewAggregator(menu.NewGormSource(database.DB), logger)
	listener := menu.NewListener(cfg.DatabaseURL, aggregator, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go aggregator.Run(ctx)
	go listener.Run(ctx)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	menuHandler := &handler.MenuHandler{Agg: aggregator, Log: logger}
	cartHandler := &handler.CartHandler{Store: store, Agg: aggregator, Log: logger}
	authHandler := &handler.AuthHandler{Store: store, Log: logger}
	adminHandler := &handler.AdminHandler{Storage: uploads, Log: logger}

	// Cardápio público
	router.GET("/", menuHandler.ShowMenu)
	router.GET("/events", menuHandler.StreamEvents)
	router.Static("/uploads", cfg.UploadDir)

	// Carrinho e checkout
	router.GET("/cart", cartHandler.ShowCart)
	router.POST("/cart/items/:id", cartHandler.AddToCart)
	router.PUT("/cart/items/:id", cartHandler.UpdateQuantity)
	router.DELETE("/cart/items/:id", cartHandler.RemoveFromCart)
	router.DELETE("/cart", cartHandler.ClearCart)
	router.POST("/checkout", cartHandler.Checkout)

	// Autenticação do painel
	router.GET("/admin/login", authHandler.ShowLoginPage)
	router.POST("/admin/login", authHandler.ProcessLogin)
	router.POST("/admin/signup", authHandler.ProcessSignup)
	router.POST("/admin/logout", authHandler.Logout)

	// Painel administrativo
	admin := router.Group("/admin", authHandler.AuthRequired())
	{
		admin.GET("", adminHandler.ShowDashboard)
		admin.GET("/categories", adminHandler.ListCategories)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.PUT("/categories/:id", adminHandler.UpdateCategory)
		admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
		admin.GET("/products", adminHandler.ListProducts)
		admin.POST("/products", adminHandler.CreateProduct)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.GET("/settings", adminHandler.ShowSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("servidor rodando", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("encerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("erro no encerramento do servidor", zap.Error(err))
	}
	logger.Info("servidor encerrado")
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
