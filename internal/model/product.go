package model

import "time"

// Product representa um item vendido no cardápio. Produtos com
// Available = false saem do cardápio público mas continuam visíveis
// e editáveis no painel administrativo.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CategoryID  string    `gorm:"size:36;not null;index" json:"category_id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`
	Available   bool      `gorm:"default:true" json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}
