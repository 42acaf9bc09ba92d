// Package cart implementa o carrinho de compras em memória. O estado vive
// na sessão do visitante apenas como id do produto -> quantidade; os dados
// do produto são rejuntados a partir do banco a cada requisição, de forma
// que produtos removidos ou indisponíveis simplesmente desaparecem.
package cart

import (
	"sort"

	"github.com/noirmenu/cardapio-digital/internal/model"
)

// Line é um item do carrinho: snapshot do produto + quantidade positiva.
type Line struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Subtotal da linha (preço x quantidade).
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

type Cart struct {
	lines map[string]*Line
}

func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// FromQuantities reconstrói o carrinho a partir das quantidades guardadas
// na sessão e da lista de produtos disponíveis. Ids desconhecidos e
// quantidades não positivas são descartados.
func FromQuantities(quantities map[string]int, products []model.Product) *Cart {
	c := New()
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for id, qty := range quantities {
		if qty <= 0 {
			continue
		}
		if p, ok := byID[id]; ok {
			c.lines[id] = &Line{Product: p, Quantity: qty}
		}
	}
	return c
}

// AddItem incrementa a quantidade em 1, inserindo a linha se necessário.
// Não há limite superior de quantidade.
func (c *Cart) AddItem(p model.Product) {
	if line, ok := c.lines[p.ID]; ok {
		line.Quantity++
		return
	}
	c.lines[p.ID] = &Line{Product: p, Quantity: 1}
}

// UpdateQuantity define a quantidade exata da linha. Quantidade zero ou
// negativa remove a linha. Ids desconhecidos são ignorados.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		delete(c.lines, productID)
		return
	}
	if line, ok := c.lines[productID]; ok {
		line.Quantity = quantity
	}
}

func (c *Cart) RemoveItem(productID string) {
	delete(c.lines, productID)
}

// Clear esvazia o carrinho. Chamado após a conclusão do checkout.
func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
}

// Subtotal soma preço x quantidade de todas as linhas.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// TotalItems soma as quantidades de todas as linhas.
func (c *Cart) TotalItems() int {
	var total int
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines devolve as linhas ordenadas pelo nome do produto, para exibição
// estável do carrinho.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Product.Name < lines[j].Product.Name
	})
	return lines
}

// Quantities devolve o mapa id -> quantidade para persistir na sessão.
func (c *Cart) Quantities() map[string]int {
	q := make(map[string]int, len(c.lines))
	for id, line := range c.lines {
		q[id] = line.Quantity
	}
	return q
}
