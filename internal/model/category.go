package model

import "time"

// Category representa uma sessão do cardápio (Pizzas, Bebidas...).
// A coluna "order" define a posição de exibição: menor aparece primeiro.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Order     int       `gorm:"column:order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
