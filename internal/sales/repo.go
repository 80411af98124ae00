package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/osegura/ventapos-backend/pkg/db"
	"github.com/osegura/ventapos-backend/pkg/db/models"
)

// Repository exposes the persistence operations the posting engine needs.
// WithTx rebinds the repository to a transaction handle so every write in
// one unit of work shares the same connection.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	CreateMovement(ctx context.Context, movement *models.InventoryMovement) error
	CreateOrderLines(ctx context.Context, lines []models.OrderLine) error
	LockOrderForUpdate(ctx context.Context, orderID uint) (*models.Order, error)
	UpdateOrderTotal(ctx context.Context, orderID uint, total decimal.Decimal) error
	FindOrderWithLines(ctx context.Context, orderID uint) (*models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindProductsByIDs loads every distinct referenced product in one query
// and indexes the result by id. Absent ids are simply missing from the map.
func (r *repository) FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	indexed := make(map[uint]models.Product, len(products))
	for _, product := range products {
		indexed[product.ID] = product
	}
	return indexed, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateOrderLines bulk-inserts the batch in a single statement.
func (r *repository) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// LockOrderForUpdate reads the order row under an exclusive lock held until
// the surrounding transaction commits or rolls back.
func (r *repository) LockOrderForUpdate(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.LockForUpdate(r.db.WithContext(ctx)).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total", total).Error
}

// FindOrderWithLines loads an order and its lines ordered by insertion.
func (r *repository) FindOrderWithLines(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_lines.id ASC")
		}).
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
