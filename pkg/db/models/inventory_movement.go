package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osegura/ventapos-backend/pkg/enums"
)

// InventoryMovement is the immutable audit record of one stock change.
// Created once per order line and never updated.
type InventoryMovement struct {
	ID          uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	Direction   enums.MovementDirection `gorm:"column:direction;not null"`
	ProductID   uint                    `gorm:"column:product_id;not null;index"`
	WarehouseID uint                    `gorm:"column:warehouse_id;not null"`
	Qty         int                     `gorm:"column:qty;not null"`
	UnitPrice   decimal.Decimal         `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Reason      string                  `gorm:"column:reason;not null"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
