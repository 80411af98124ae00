package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osegura/ventapos-backend/pkg/enums"
)

// Order is the parent aggregate a sale posts against. Once any line exists
// its total is at least the sum of posted line subtotals.
type Order struct {
	ID        uint              `gorm:"column:id;primaryKey;autoIncrement"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'open'"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
