package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noirmenu/cardapio-digital/internal/menu"
)

// MenuHandler serve o cardápio público agregado e o stream de eventos de
// mudança que permite ao cliente recarregar o cardápio em tempo real.
type MenuHandler struct {
	Agg *menu.Aggregator
	Log *zap.Logger
}

// ShowMenu devolve o view-model completo do cardápio. Se nenhuma leitura
// do banco foi concluída, cai nos padrões estáticos embutidos.
func (h *MenuHandler) ShowMenu(c *gin.Context) {
	view, err := h.Agg.View()
	if view == nil {
		if err != nil {
			h.Log.Warn("cardápio indisponível, servindo padrões estáticos", zap.Error(err))
		}
		view = menu.DefaultView()
	}
	c.JSON(http.StatusOK, view)
}

// StreamEvents mantém uma conexão SSE e envia um evento "menu_changed"
// (com o nome da tabela alterada) a cada releitura do cardápio. A
// assinatura é liberada quando o cliente desconecta.
func (h *MenuHandler) StreamEvents(c *gin.Context) {
	events := h.Agg.Subscribe()
	defer h.Agg.Unsubscribe(events)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case table, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("menu_changed", table)
			return true
		}
	})
}
