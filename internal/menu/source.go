package menu

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noirmenu/cardapio-digital/internal/model"
)

// Source fornece as três leituras que alimentam o cardápio.
type Source interface {
	// Categories devolve as categorias em ordem de exibição.
	Categories(ctx context.Context) ([]model.Category, error)
	// AvailableProducts devolve apenas produtos com available = true.
	AvailableProducts(ctx context.Context) ([]model.Product, error)
	// Config devolve a linha única de configuração, ou nil quando ela
	// ainda não foi criada; ausência não é erro.
	Config(ctx context.Context) (*model.MenuConfig, error)
}

type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Order(`"order" asc`).Find(&categories).Error
	return categories, err
}

func (s *GormSource) AvailableProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("available = ?", true).Find(&products).Error
	return products, err
}

func (s *GormSource) Config(ctx context.Context) (*model.MenuConfig, error) {
	var cfg model.MenuConfig
	err := s.db.WithContext(ctx).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}
