package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/noirmenu/cardapio-digital/internal/database"
	"github.com/noirmenu/cardapio-digital/internal/menu"
	"github.com/noirmenu/cardapio-digital/internal/model"
	"github.com/noirmenu/cardapio-digital/internal/storage"
)

// AdminHandler agrupa as telas do painel: dashboard, categorias, produtos
// e configurações. Cada tela segue o mesmo desenho: buscar tudo, gravar,
// rebuscar.
type AdminHandler struct {
	Storage storage.Storage
	Log     *zap.Logger
}

// confirmed verifica a confirmação interativa de exclusão. Sem confirm=true
// nada é excluído: cancelar a confirmação deixa as linhas intactas.
func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true" || c.PostForm("confirm") == "true"
}

// ShowDashboard devolve os contadores do painel.
func (h *AdminHandler) ShowDashboard(c *gin.Context) {
	var products, categories, available int64

	if err := database.DB.Model(&model.Product{}).Count(&products).Error; err != nil {
		h.Log.Error("erro ao contar produtos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o dashboard."})
		return
	}
	if err := database.DB.Model(&model.Category{}).Count(&categories).Error; err != nil {
		h.Log.Error("erro ao contar categorias", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o dashboard."})
		return
	}
	if err := database.DB.Model(&model.Product{}).Where("available = ?", true).Count(&available).Error; err != nil {
		h.Log.Error("erro ao contar produtos disponíveis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar o dashboard."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"categories": categories,
		"available":  available,
	})
}

// ---- Categorias ----

// ListCategories devolve todas as categorias em ordem de exibição.
func (h *AdminHandler) ListCategories(c *gin.Context) {
	var categories []model.Category
	if err := database.DB.Order(`"order" asc`).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Informe o nome da categoria."})
		return
	}
	order, _ := strconv.Atoi(c.PostForm("order"))

	category := model.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Order:     order,
		CreatedAt: time.Now(),
	}
	if err := database.DB.Create(&category).Error; err != nil {
		h.Log.Error("erro ao criar categoria", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar categoria."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "category": category})
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var category model.Category
	if err := database.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Categoria não encontrada."})
		return
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		category.Name = name
	}
	if orderStr := c.PostForm("order"); orderStr != "" {
		if order, err := strconv.Atoi(orderStr); err == nil {
			category.Order = order
		}
	}

	if err := database.DB.Save(&category).Error; err != nil {
		h.Log.Error("erro ao atualizar categoria", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar categoria."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if !confirmed(c) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Exclusão não confirmada."})
		return
	}
	if err := database.DB.Delete(&model.Category{}, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao excluir categoria."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- Produtos ----

// ListProducts devolve todos os produtos (inclusive indisponíveis), mais
// recentes primeiro.
func (h *AdminHandler) ListProducts(c *gin.Context) {
	var products []model.Product
	if err := database.DB.Order("created_at desc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar produtos."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// uploadImage grava a imagem opcional do formulário. Falha de upload não
// aborta a gravação do produto: degrada para URL vazia e avisa o usuário.
func (h *AdminHandler) uploadImage(c *gin.Context) (url string, warning string) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", ""
	}

	src, err := file.Open()
	if err != nil {
		h.Log.Warn("erro ao abrir imagem enviada", zap.Error(err))
		return "", "Erro no upload da imagem"
	}
	defer src.Close()

	url, err = h.Storage.Save(file.Filename, src)
	if err != nil {
		h.Log.Warn("erro no upload da imagem", zap.Error(err))
		return "", "Erro no upload da imagem"
	}
	return url, ""
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	categoryID := c.PostForm("category_id")
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "O preço fornecido é inválido."})
		return
	}
	if name == "" || categoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Nome e categoria são obrigatórios."})
		return
	}

	imageURL, warning := h.uploadImage(c)

	product := model.Product{
		ID:          uuid.New().String(),
		CategoryID:  categoryID,
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		ImageURL:    imageURL,
		Available:   c.PostForm("available") == "true",
		CreatedAt:   time.Now(),
	}
	if err := database.DB.Create(&product).Error; err != nil {
		h.Log.Error("erro ao criar produto", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar produto no banco de dados."})
		return
	}

	resp := gin.H{"success": true, "product": product}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var product model.Product
	if err := database.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Produto não encontrado."})
		return
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		product.Name = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		product.Description = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "O preço fornecido é inválido."})
			return
		}
		product.Price = price
	}
	if categoryID := c.PostForm("category_id"); categoryID != "" {
		product.CategoryID = categoryID
	}
	if availableStr, ok := c.GetPostForm("available"); ok {
		product.Available = availableStr == "true"
	}

	warning := ""
	if url, w := h.uploadImage(c); url != "" {
		product.ImageURL = url
	} else {
		warning = w
	}

	if err := database.DB.Save(&product).Error; err != nil {
		h.Log.Error("erro ao atualizar produto", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar o produto."})
		return
	}

	resp := gin.H{"success": true, "product": product}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if !confirmed(c) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Exclusão não confirmada."})
		return
	}

	var product model.Product
	if err := database.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Produto não encontrado."})
		return
	}

	if product.ImageURL != "" {
		if err := h.Storage.Remove(product.ImageURL); err != nil {
			h.Log.Warn("não foi possível remover a imagem do produto",
				zap.String("image_url", product.ImageURL), zap.Error(err))
		}
	}

	if err := database.DB.Delete(&model.Product{}, "id = ?", product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao excluir o produto do banco de dados."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- Configurações ----

// ShowSettings devolve a linha única de configuração, criando-a com os
// valores iniciais na primeira visita.
func (h *AdminHandler) ShowSettings(c *gin.Context) {
	var cfg model.MenuConfig
	err := database.DB.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.MenuConfig{
			ID:             uuid.New().String(),
			WhatsAppNumber: menu.PlaceholderWhatsApp,
			MinimumOrder:   0,
			Neighborhoods:  model.StringList{},
			UpdatedAt:      time.Now(),
		}
		if err := database.DB.Create(&cfg).Error; err != nil {
			h.Log.Error("erro ao criar configuração inicial", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar configurações."})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar configurações."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// UpdateSettings atualiza a configuração em vigor. Bairros duplicados são
// rejeitados antes de qualquer gravação.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var body struct {
		WhatsAppNumber string   `json:"whatsapp_number"`
		MinimumOrder   float64  `json:"minimum_order"`
		Neighborhoods  []string `json:"neighborhoods"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados de configuração inválidos."})
		return
	}
	if body.MinimumOrder < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "O pedido mínimo não pode ser negativo."})
		return
	}

	neighborhoods := make(model.StringList, 0, len(body.Neighborhoods))
	seen := make(map[string]bool)
	for _, name := range body.Neighborhoods {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if seen[name] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Este bairro já está na lista."})
			return
		}
		seen[name] = true
		neighborhoods = append(neighborhoods, name)
	}

	var cfg model.MenuConfig
	err := database.DB.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.MenuConfig{ID: uuid.New().String()}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar configurações."})
		return
	}

	cfg.WhatsAppNumber = strings.TrimSpace(body.WhatsAppNumber)
	cfg.MinimumOrder = body.MinimumOrder
	cfg.Neighborhoods = neighborhoods
	cfg.UpdatedAt = time.Now()

	if err := database.DB.Save(&cfg).Error; err != nil {
		h.Log.Error("erro ao salvar configurações", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar configurações."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg, "message": "Configurações salvas com sucesso!"})
}
