package sales

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/osegura/ventapos-backend/pkg/db"
	"github.com/osegura/ventapos-backend/pkg/db/models"
	"github.com/osegura/ventapos-backend/pkg/enums"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.RunInTx(r.conn.WithContext(ctx), fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sales_svc_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Warehouse{},
		&models.Product{},
		&models.Order{},
		&models.InventoryMovement{},
		&models.OrderLine{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(gormTxRunner{conn: conn}, NewRepository(conn), nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func pricePtr(t *testing.T, value string) *decimal.Decimal {
	d := price(t, value)
	return &d
}

func seedCatalog(t *testing.T, conn *gorm.DB) (*models.Product, *models.Product, *models.Warehouse) {
	t.Helper()
	warehouse := &models.Warehouse{Name: "central"}
	if err := conn.Create(warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	cafe := &models.Product{SKU: "CAFE-250", Name: "Café molido 250g", ListPrice: price(t, "10.00"), Stock: 100, IsActive: true}
	azucar := &models.Product{SKU: "AZU-1000", Name: "Azúcar 1kg", ListPrice: price(t, "5.00"), Stock: 100, IsActive: true}
	for _, p := range []*models.Product{cafe, azucar} {
		if err := conn.Create(p).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	return cafe, azucar, warehouse
}

func seedOrder(t *testing.T, conn *gorm.DB, total string) *models.Order {
	t.Helper()
	order := &models.Order{Total: price(t, total), Status: enums.OrderStatusOpen}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func countRows(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	if err := conn.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func orderTotal(t *testing.T, conn *gorm.DB, orderID uint) decimal.Decimal {
	t.Helper()
	var order models.Order
	if err := conn.First(&order, "id = ?", orderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	return order.Total
}

func TestPostLinesSetsZeroTotalToSubtotalSum(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	lines, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID},
		{ProductID: azucar.ID, Qty: 1, WarehouseID: warehouse.ID},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.SubTotal).Round(2)
	}
	if !sum.Equal(price(t, "25.00")) {
		t.Fatalf("expected subtotal sum 25.00, got %s", sum)
	}
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "25.00")) {
		t.Fatalf("expected order total 25.00, got %s", got)
	}
}

func TestPostLinesLeavesLargerTotalUntouched(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "100.00")

	_, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID},
		{ProductID: azucar.ID, Qty: 1, WarehouseID: warehouse.ID},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "100.00")) {
		t.Fatalf("expected order total to stay 100.00, got %s", got)
	}
}

func TestPostLinesRaisesSmallerNonZeroTotal(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, _, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "5.00")

	_, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "20.00")) {
		t.Fatalf("expected order total raised to 20.00, got %s", got)
	}
}

func TestPostLinesCallerPriceAndSubtotalWin(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	lines, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		// Caller price of 8.50 beats the 10.00 list price.
		{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID, UnitPrice: pricePtr(t, "8.50")},
		// Caller subtotal is trusted even though 3 × 5.00 would be 15.00.
		{ProductID: azucar.ID, Qty: 3, WarehouseID: warehouse.ID, SubTotal: pricePtr(t, "12.345")},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}

	if !lines[0].UnitPrice.Equal(price(t, "8.50")) || !lines[0].SubTotal.Equal(price(t, "17.00")) {
		t.Fatalf("unexpected first line %s / %s", lines[0].UnitPrice, lines[0].SubTotal)
	}
	if !lines[1].SubTotal.Equal(price(t, "12.35")) {
		t.Fatalf("expected caller subtotal rounded to 12.35, got %s", lines[1].SubTotal)
	}
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "29.35")) {
		t.Fatalf("expected order total 29.35, got %s", got)
	}
}

func TestPostLinesMovementsCarryLineOrder(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	lines, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 1, WarehouseID: warehouse.ID},
		{ProductID: azucar.ID, Qty: 1, WarehouseID: warehouse.ID},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}

	for i, line := range lines {
		var movement models.InventoryMovement
		if err := conn.First(&movement, "id = ?", line.InventoryMovementID).Error; err != nil {
			t.Fatalf("load movement: %v", err)
		}
		wantReason := fmt.Sprintf("sale order #%d line %d", order.ID, i+1)
		if movement.Reason != wantReason {
			t.Fatalf("expected reason %q, got %q", wantReason, movement.Reason)
		}
		if movement.Direction != enums.MovementDirectionOutbound {
			t.Fatalf("expected outbound movement, got %s", movement.Direction)
		}
		if movement.ProductID != line.ProductID || movement.Qty != line.Qty {
			t.Fatalf("movement does not mirror line: %+v vs %+v", movement, line)
		}
	}
}

func TestPostLinesEmptyBatchRejected(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.PostLines(context.Background(), 1, nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestPostLinesInvalidQuantityRollsBackEverything(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, _, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	_, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID},
		{ProductID: cafe.ID, Qty: 0, WarehouseID: warehouse.ID},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	if n := countRows(t, conn, &models.OrderLine{}); n != 0 {
		t.Fatalf("expected no persisted lines, got %d", n)
	}
	if n := countRows(t, conn, &models.InventoryMovement{}); n != 0 {
		t.Fatalf("expected no persisted movements, got %d", n)
	}
	if got := orderTotal(t, conn, order.ID); !got.Equal(decimal.Zero) {
		t.Fatalf("expected order total untouched, got %s", got)
	}
}

func TestPostLinesUnknownProductFailsBeforeAnyWrite(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, _, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	_, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 1, WarehouseID: warehouse.ID},
		{ProductID: 9999, Qty: 1, WarehouseID: warehouse.ID},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	if n := countRows(t, conn, &models.InventoryMovement{}); n != 0 {
		t.Fatalf("expected no movements written, got %d", n)
	}
	if n := countRows(t, conn, &models.OrderLine{}); n != 0 {
		t.Fatalf("expected no lines written, got %d", n)
	}
}

func TestPostLinesUnknownOrderRollsBack(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, _, warehouse := seedCatalog(t, conn)

	_, err := svc.PostLines(context.Background(), 424242, []LineInput{
		{ProductID: cafe.ID, Qty: 1, WarehouseID: warehouse.ID},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	if n := countRows(t, conn, &models.InventoryMovement{}); n != 0 {
		t.Fatalf("expected movement rollback, got %d rows", n)
	}
	if n := countRows(t, conn, &models.OrderLine{}); n != 0 {
		t.Fatalf("expected line rollback, got %d rows", n)
	}
}

func TestPostLinesIsNotIdempotent(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, _, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	batch := []LineInput{{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID}}
	for i := 0; i < 2; i++ {
		if _, err := svc.PostLines(context.Background(), order.ID, batch); err != nil {
			t.Fatalf("post %d: %v", i+1, err)
		}
	}

	if n := countRows(t, conn, &models.OrderLine{}); n != 2 {
		t.Fatalf("expected two independent lines, got %d", n)
	}
	if n := countRows(t, conn, &models.InventoryMovement{}); n != 2 {
		t.Fatalf("expected two independent movements, got %d", n)
	}
	// 20.00 then 40.00: the second posting raises the total again.
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "40.00")) {
		t.Fatalf("expected total 40.00 after repeated posting, got %s", got)
	}
}

func TestPostLinesConcurrentCallsSerialize(t *testing.T) {
	// File-backed store with immediate write transactions so the two
	// goroutines queue on the write lock instead of erroring out.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate",
		filepath.Join(t.TempDir(), "sales.db"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Warehouse{},
		&models.Product{},
		&models.Order{},
		&models.InventoryMovement{},
		&models.OrderLine{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	batches := [][]LineInput{
		{{ProductID: cafe.ID, Qty: 2, WarehouseID: warehouse.ID}},   // 20.00
		{{ProductID: azucar.ID, Qty: 1, WarehouseID: warehouse.ID}}, // 5.00
	}

	var wg sync.WaitGroup
	errs := make([]error, len(batches))
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []LineInput) {
			defer wg.Done()
			_, errs[i] = svc.PostLines(context.Background(), order.ID, batch)
		}(i, batch)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent post %d: %v", i, err)
		}
	}

	// Either serial order yields the same fixed point: max(20.00, 5.00)
	// after both reconciliations is 20.00.
	if got := orderTotal(t, conn, order.ID); !got.Equal(price(t, "20.00")) {
		t.Fatalf("expected serialized total 20.00, got %s", got)
	}
	if n := countRows(t, conn, &models.OrderLine{}); n != 2 {
		t.Fatalf("expected both batches posted, got %d lines", n)
	}
}

func TestGetOrderReturnsLinesInPostingOrder(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	cafe, azucar, warehouse := seedCatalog(t, conn)
	order := seedOrder(t, conn, "0")

	_, err := svc.PostLines(context.Background(), order.ID, []LineInput{
		{ProductID: cafe.ID, Qty: 1, WarehouseID: warehouse.ID},
		{ProductID: azucar.ID, Qty: 1, WarehouseID: warehouse.ID},
	})
	if err != nil {
		t.Fatalf("post lines: %v", err)
	}

	dto, err := svc.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(dto.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(dto.Lines))
	}
	if dto.Lines[0].ProductID != cafe.ID || dto.Lines[1].ProductID != azucar.ID {
		t.Fatalf("lines out of posting order: %+v", dto.Lines)
	}
	if !dto.Total.Equal(price(t, "15.00")) {
		t.Fatalf("expected total 15.00, got %s", dto.Total)
	}
}

func TestGetOrderMissing(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	if _, err := svc.GetOrder(context.Background(), 555); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
