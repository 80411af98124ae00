package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine captures one posted sale line. Append-only after creation.
type OrderLine struct {
	ID                  uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID             uint            `gorm:"column:order_id;not null;index"`
	ProductID           uint            `gorm:"column:product_id;not null"`
	WarehouseID         uint            `gorm:"column:warehouse_id;not null"`
	Qty                 int             `gorm:"column:qty;not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	SubTotal            decimal.Decimal `gorm:"column:sub_total;type:numeric(12,2);not null"`
	InventoryMovementID uint            `gorm:"column:inventory_movement_id;not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}
