package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is read-mostly during sale posting; the engine never mutates it.
type Product struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SKU       string          `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Name      string          `gorm:"column:name;not null"`
	ListPrice decimal.Decimal `gorm:"column:list_price;type:numeric(12,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
