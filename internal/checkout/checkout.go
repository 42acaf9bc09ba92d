// Package checkout valida o pedido contra as regras de entrega e monta o
// resumo em texto que o cliente envia pelo WhatsApp. Nenhum registro de
// pedido é gravado no servidor: o pedido existe apenas como mensagem.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/noirmenu/cardapio-digital/internal/cart"
	"github.com/noirmenu/cardapio-digital/internal/menu"
)

var (
	ErrEmptyCart           = errors.New("o carrinho está vazio")
	ErrUnknownNeighborhood = errors.New("selecione um bairro atendido")
	ErrUnknownPayment      = errors.New("forma de pagamento inválida")
	ErrMissingName         = errors.New("informe o nome do cliente")
	ErrMissingAddress      = errors.New("informe o endereço de entrega")
)

// Request são os dados coletados do cliente no checkout.
type Request struct {
	CustomerName    string `json:"customer_name"`
	NeighborhoodID  string `json:"neighborhood_id"`
	Address         string `json:"address"`
	PaymentMethodID string `json:"payment_method_id"`
}

// Order é um pedido validado, pronto para virar mensagem.
type Order struct {
	Cart          *cart.Cart
	Request       Request
	Neighborhood  menu.Neighborhood
	PaymentMethod menu.PaymentMethod
}

// Validate aplica as pré-condições do checkout na ordem: carrinho não
// vazio, pedido mínimo (comparação inclusiva: subtotal igual ao mínimo
// passa), bairro configurado, forma de pagamento conhecida. Tudo é
// verificado antes de qualquer efeito colateral.
func Validate(req Request, c *cart.Cart, delivery menu.DeliveryConfig, neighborhoods []menu.Neighborhood, methods []menu.PaymentMethod) (*Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if delivery.MinimumOrderEnabled && c.Subtotal() < delivery.MinimumOrder {
		return nil, fmt.Errorf("pedido mínimo de %s não atingido", FormatBRL(delivery.MinimumOrder))
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrMissingName
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrMissingAddress
	}

	order := &Order{Cart: c, Request: req}

	found := false
	for _, n := range neighborhoods {
		if n.ID == req.NeighborhoodID {
			order.Neighborhood = n
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownNeighborhood
	}

	found = false
	for _, m := range methods {
		if m.ID == req.PaymentMethodID {
			order.PaymentMethod = m
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownPayment
	}

	return order, nil
}

// Total do pedido. A taxa de entrega é sempre zero no modelo atual, então
// o total é o próprio subtotal.
func (o *Order) Total() float64 {
	return o.Cart.Subtotal() + o.Neighborhood.DeliveryFee
}

// Summary monta o resumo do pedido em texto simples, como o cliente
// enviará no WhatsApp.
func (o *Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Novo Pedido - %s*\n\n", menu.RestaurantName)

	b.WriteString("*Itens:*\n")
	for _, line := range o.Cart.Lines() {
		fmt.Fprintf(&b, "%dx %s - %s\n", line.Quantity, line.Product.Name, FormatBRL(line.Subtotal()))
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s\n", FormatBRL(o.Cart.Subtotal()))
	fmt.Fprintf(&b, "*Total:* %s\n\n", FormatBRL(o.Total()))

	fmt.Fprintf(&b, "*Cliente:* %s\n", strings.TrimSpace(o.Request.CustomerName))
	fmt.Fprintf(&b, "*Bairro:* %s\n", o.Neighborhood.Name)
	fmt.Fprintf(&b, "*Endereço:* %s\n", strings.TrimSpace(o.Request.Address))
	fmt.Fprintf(&b, "*Pagamento:* %s", o.PaymentMethod.Name)

	return b.String()
}

// WhatsAppLink monta o deep link com o número do estabelecimento e o
// resumo já preenchido, para abrir no aplicativo padrão do cliente.
func (o *Order) WhatsAppLink(whatsappNumber string) string {
	return "https://wa.me/" + whatsappNumber + "?text=" + url.QueryEscape(o.Summary())
}

// FormatBRL formata um valor como moeda brasileira: R$ 1.234,56.
func FormatBRL(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	s := fmt.Sprintf("%.2f", value)
	intPart := s[:len(s)-3]
	fracPart := s[len(s)-2:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	out := "R$ " + grouped.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
