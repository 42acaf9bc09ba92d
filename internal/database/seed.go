package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noirmenu/cardapio-digital/internal/model"
)

// SeedAdmin garante que exista ao menos um administrador para o painel.
func SeedAdmin(email, password string) error {
	var user model.User
	err := DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("falha ao gerar hash da senha do admin: %w", err)
	}

	admin := model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("falha ao criar o usuário admin: %w", err)
	}
	return nil
}
