package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/osegura/ventapos-backend/pkg/db"
	"github.com/osegura/ventapos-backend/pkg/db/models"
	"github.com/osegura/ventapos-backend/pkg/enums"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
	"github.com/osegura/ventapos-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service posts sale lines against orders.
type Service interface {
	PostLines(ctx context.Context, orderID uint, inputs []LineInput) ([]OrderLineDTO, error)
	GetOrder(ctx context.Context, orderID uint) (*OrderDTO, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.SalesMetrics
}

// NewService builds the posting service. Metrics may be nil.
func NewService(tx txRunner, repo Repository, logg *logger.Logger, m *metrics.SalesMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{tx: tx, repo: repo, logg: logg, metrics: m}, nil
}

// PostLines posts a batch of sale lines against the given order inside one
// unit of work. Every write either commits together or rolls back together;
// partial posting is never observable. The call is intentionally not
// idempotent: repeating it creates a second, independent set of lines and
// movements.
func (s *service) PostLines(ctx context.Context, orderID uint, inputs []LineInput) ([]OrderLineDTO, error) {
	start := time.Now()
	lines, err := s.postLines(ctx, orderID, inputs)
	if err != nil {
		s.metrics.ObserveDuration("error", time.Since(start))
		s.metrics.IncFailure(string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	s.metrics.ObserveDuration("ok", time.Since(start))
	s.metrics.AddLinesPosted(len(lines))
	return lines, nil
}

func (s *service) postLines(ctx context.Context, orderID uint, inputs []LineInput) ([]OrderLineDTO, error) {
	if orderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale batch must contain at least one line")
	}
	if err := validateLines(inputs); err != nil {
		return nil, err
	}

	var posted []OrderLineDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		products, err := repo.FindProductsByIDs(ctx, distinctProductIDs(inputs))
		if err != nil {
			return err
		}
		for i, input := range inputs {
			if _, ok := products[input.ProductID]; !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("line %d references an unknown product", i+1)).
					WithDetails(map[string]any{"product_id": input.ProductID})
			}
		}

		totalSubtotals := decimal.Zero
		lines := make([]models.OrderLine, 0, len(inputs))
		for i, input := range inputs {
			product := products[input.ProductID]

			unitPrice := product.ListPrice
			if input.UnitPrice != nil {
				unitPrice = *input.UnitPrice
			}

			var subTotal decimal.Decimal
			if input.SubTotal != nil {
				subTotal = input.SubTotal.Round(2)
			} else {
				subTotal = unitPrice.Mul(decimal.NewFromInt(int64(input.Qty))).Round(2)
			}
			totalSubtotals = totalSubtotals.Add(subTotal).Round(2)

			movement := &models.InventoryMovement{
				Direction:   enums.MovementDirectionOutbound,
				ProductID:   input.ProductID,
				WarehouseID: input.WarehouseID,
				Qty:         input.Qty,
				UnitPrice:   unitPrice,
				Reason:      fmt.Sprintf("sale order #%d line %d", orderID, i+1),
			}
			if err := repo.CreateMovement(ctx, movement); err != nil {
				return err
			}

			lines = append(lines, models.OrderLine{
				OrderID:             orderID,
				ProductID:           input.ProductID,
				WarehouseID:         input.WarehouseID,
				Qty:                 input.Qty,
				UnitPrice:           unitPrice,
				SubTotal:            subTotal,
				InventoryMovementID: movement.ID,
			})
		}

		if err := repo.CreateOrderLines(ctx, lines); err != nil {
			return err
		}

		order, err := repo.LockOrderForUpdate(ctx, orderID)
		if err != nil {
			if isRecordNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
					WithDetails(map[string]any{"order_id": orderID})
			}
			return err
		}

		// An existing total at or above the posted sum is assumed to already
		// include out-of-band charges and is left untouched.
		if order.Total.IsZero() || order.Total.LessThan(totalSubtotals) {
			if err := repo.UpdateOrderTotal(ctx, orderID, totalSubtotals); err != nil {
				return err
			}
		}

		posted = make([]OrderLineDTO, 0, len(lines))
		for i := range lines {
			posted = append(posted, LineFromModel(&lines[i]))
		}
		return nil
	})
	if err != nil {
		if db.IsLockTimeout(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLockTimeout, err, "order row is locked by another sale")
		}
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("posted %d sale lines to order %d", len(posted), orderID))
	}
	return posted, nil
}

// GetOrder returns an order with its posted lines.
func (s *service) GetOrder(ctx context.Context, orderID uint) (*OrderDTO, error) {
	var dto *OrderDTO
	order, err := s.repo.FindOrderWithLines(ctx, orderID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
				WithDetails(map[string]any{"order_id": orderID})
		}
		return nil, err
	}
	mapped := OrderFromModel(order)
	dto = &mapped
	return dto, nil
}

func validateLines(inputs []LineInput) error {
	for i, input := range inputs {
		switch {
		case input.ProductID == 0:
			return invalidLine(i, "product id required")
		case input.WarehouseID == 0:
			return invalidLine(i, "warehouse id required")
		case input.Qty <= 0:
			return invalidLine(i, "quantity must be greater than zero")
		}
	}
	return nil
}

func invalidLine(index int, reason string) error {
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("line %d: %s", index+1, reason))
}

func distinctProductIDs(inputs []LineInput) []uint {
	seen := make(map[uint]struct{}, len(inputs))
	ids := make([]uint, 0, len(inputs))
	for _, input := range inputs {
		if _, ok := seen[input.ProductID]; ok {
			continue
		}
		seen[input.ProductID] = struct{}{}
		ids = append(ids, input.ProductID)
	}
	return ids
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
