package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/noirmenu/cardapio-digital/internal/cart"
	"github.com/noirmenu/cardapio-digital/internal/checkout"
	"github.com/noirmenu/cardapio-digital/internal/database"
	"github.com/noirmenu/cardapio-digital/internal/menu"
	"github.com/noirmenu/cardapio-digital/internal/model"
)

const CartSessionKey = "shopping_cart"

// CartHandler agrupa os handlers do carrinho e do checkout. O carrinho do
// visitante vive na sessão apenas como id -> quantidade; os produtos são
// rejuntados do banco a cada leitura, então itens indisponibilizados no
// admin somem do carrinho sozinhos.
type CartHandler struct {
	Store *sessions.CookieStore
	Agg   *menu.Aggregator
	Log   *zap.Logger
}

type cartLineView struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Subtotal float64       `json:"subtotal"`
}

func (h *CartHandler) quantities(session *sessions.Session) map[string]int {
	if q, ok := session.Values[CartSessionKey].(map[string]int); ok {
		return q
	}
	return make(map[string]int)
}

// loadCart reconstrói o carrinho a partir da sessão. Sessão vazia não
// toca o banco.
func (h *CartHandler) loadCart(c *gin.Context) (*cart.Cart, *sessions.Session, error) {
	session, _ := h.Store.Get(c.Request, sessionName)
	quantities := h.quantities(session)
	if len(quantities) == 0 {
		return cart.New(), session, nil
	}

	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}

	var products []model.Product
	if err := database.DB.Where("id IN ? AND available = ?", ids, true).Find(&products).Error; err != nil {
		return nil, session, err
	}
	return cart.FromQuantities(quantities, products), session, nil
}

func (h *CartHandler) saveCart(c *gin.Context, session *sessions.Session, ct *cart.Cart) error {
	session.Values[CartSessionKey] = ct.Quantities()
	return session.Save(c.Request, c.Writer)
}

func (h *CartHandler) cartJSON(ct *cart.Cart) gin.H {
	lines := ct.Lines()
	items := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartLineView{
			Product:  line.Product,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
	}
	return gin.H{
		"items":       items,
		"subtotal":    ct.Subtotal(),
		"total_items": ct.TotalItems(),
	}
}

// ShowCart devolve o conteúdo atual do carrinho.
func (h *CartHandler) ShowCart(c *gin.Context) {
	ct, _, err := h.loadCart(c)
	if err != nil {
		h.Log.Error("erro ao carregar carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar o carrinho."})
		return
	}
	c.JSON(http.StatusOK, h.cartJSON(ct))
}

// AddToCart adiciona uma unidade do produto ao carrinho.
func (h *CartHandler) AddToCart(c *gin.Context) {
	id := c.Param("id")

	var product model.Product
	if err := database.DB.Where("id = ? AND available = ?", id, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Produto não encontrado ou indisponível."})
		return
	}

	ct, session, err := h.loadCart(c)
	if err != nil {
		h.Log.Error("erro ao carregar carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar o carrinho."})
		return
	}

	ct.AddItem(product)
	if err := h.saveCart(c, session, ct); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar o carrinho."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item adicionado com sucesso!", "newCartCount": ct.TotalItems()})
}

// UpdateQuantity define a quantidade exata de um item; zero ou negativa
// remove a linha.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Quantidade inválida."})
		return
	}

	ct, session, err := h.loadCart(c)
	if err != nil {
		h.Log.Error("erro ao carregar carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar o carrinho."})
		return
	}

	ct.UpdateQuantity(id, body.Quantity)
	if err := h.saveCart(c, session, ct); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar o carrinho."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Quantidade atualizada.", "newCartCount": ct.TotalItems()})
}

// RemoveFromCart remove um item do carrinho incondicionalmente.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id := c.Param("id")

	ct, session, err := h.loadCart(c)
	if err != nil {
		h.Log.Error("erro ao carregar carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar o carrinho."})
		return
	}

	ct.RemoveItem(id)
	if err := h.saveCart(c, session, ct); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar o carrinho."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removido.", "newCartCount": ct.TotalItems()})
}

// ClearCart esvazia o carrinho.
func (h *CartHandler) ClearCart(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, sessionName)
	session.Values[CartSessionKey] = make(map[string]int)
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao limpar o carrinho."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carrinho esvaziado.", "newCartCount": 0})
}

// Checkout valida o pedido contra as regras de entrega e devolve o deep
// link do WhatsApp com o resumo preenchido. Nenhum pedido é gravado; ao
// concluir, o carrinho é esvaziado.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do pedido inválidos."})
		return
	}

	ct, session, err := h.loadCart(c)
	if err != nil {
		h.Log.Error("erro ao carregar carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao carregar o carrinho."})
		return
	}

	view, viewErr := h.Agg.View()
	if view == nil {
		if viewErr != nil {
			h.Log.Warn("cardápio indisponível no checkout, usando padrões", zap.Error(viewErr))
		}
		view = menu.DefaultView()
	}

	order, err := checkout.Validate(req, ct, view.DeliveryConfig, view.Neighborhoods, view.PaymentMethods)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	link := order.WhatsAppLink(view.RestaurantConfig.WhatsAppNumber)

	ct.Clear()
	if err := h.saveCart(c, session, ct); err != nil {
		h.Log.Warn("erro ao limpar carrinho após checkout", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "whatsapp_link": link})
}
