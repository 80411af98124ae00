package sales

import (
	"github.com/shopspring/decimal"

	"github.com/osegura/ventapos-backend/pkg/db/models"
	"github.com/osegura/ventapos-backend/pkg/enums"
)

// LineInput is one requested sale line. UnitPrice and SubTotal are optional:
// a missing unit price defaults to the product's list price and a missing
// subtotal is computed as unitPrice × quantity. A caller-supplied subtotal is
// trusted as-is (rounded, never recomputed).
type LineInput struct {
	ProductID   uint             `json:"productId" validate:"required"`
	Qty         int              `json:"quantity" validate:"required,gt=0"`
	WarehouseID uint             `json:"warehouseId" validate:"required"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	SubTotal    *decimal.Decimal `json:"subTotal,omitempty"`
}

// OrderLineDTO is the wire shape of a posted line.
type OrderLineDTO struct {
	ID                  uint            `json:"id"`
	OrderID             uint            `json:"orderId"`
	ProductID           uint            `json:"productId"`
	WarehouseID         uint            `json:"warehouseId"`
	Qty                 int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	SubTotal            decimal.Decimal `json:"subTotal"`
	InventoryMovementID uint            `json:"inventoryMovementId"`
}

// OrderDTO is the wire shape of an order with its posted lines.
type OrderDTO struct {
	ID     uint              `json:"id"`
	Total  decimal.Decimal   `json:"total"`
	Status enums.OrderStatus `json:"status"`
	Lines  []OrderLineDTO    `json:"lines"`
}

// LineFromModel maps a persisted order line to its wire shape.
func LineFromModel(line *models.OrderLine) OrderLineDTO {
	return OrderLineDTO{
		ID:                  line.ID,
		OrderID:             line.OrderID,
		ProductID:           line.ProductID,
		WarehouseID:         line.WarehouseID,
		Qty:                 line.Qty,
		UnitPrice:           line.UnitPrice,
		SubTotal:            line.SubTotal,
		InventoryMovementID: line.InventoryMovementID,
	}
}

// OrderFromModel maps a persisted order (with preloaded lines) to its wire
// shape.
func OrderFromModel(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:     order.ID,
		Total:  order.Total,
		Status: order.Status,
		Lines:  make([]OrderLineDTO, 0, len(order.Lines)),
	}
	for i := range order.Lines {
		dto.Lines = append(dto.Lines, LineFromModel(&order.Lines[i]))
	}
	return dto
}
