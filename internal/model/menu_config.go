package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList é armazenada como jsonb ([]string) no Postgres.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("StringList: tipo de coluna inesperado %T", src)
	}
}

// MenuConfig é a linha única de configuração do cardápio. Criada de forma
// preguiçosa na primeira visita às configurações do admin e, a partir daí,
// apenas atualizada, nunca excluída.
type MenuConfig struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	WhatsAppNumber string     `gorm:"column:whatsapp_number;size:20;not null" json:"whatsapp_number"`
	MinimumOrder   float64    `gorm:"not null;default:0" json:"minimum_order"`
	Neighborhoods  StringList `gorm:"type:jsonb" json:"neighborhoods"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (MenuConfig) TableName() string { return "menu_config" }
