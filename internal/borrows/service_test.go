package borrows

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/internal/inventory"
	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/enums"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:borrows_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Storage{},
		&models.Item{},
		&models.BorrowTransaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(db.NewFromConn(conn), NewRepository(conn), inventory.NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedItem(t *testing.T, conn *gorm.DB, qty int) (*models.Item, *models.User) {
	t.Helper()
	storage := &models.Storage{StorageName: "Cabinet A", Location: "Room 101"}
	if err := conn.Create(storage).Error; err != nil {
		t.Fatalf("seed storage: %v", err)
	}
	user := &models.User{Fullname: "Alice Example", Department: "IT"}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	item := &models.Item{ItemName: "Projector", Quantity: qty, Unit: "unit", StorageID: storage.StorageID}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item, user
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestBorrowDecrementsStock(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	item, user := seedItem(t, conn, 5)

	record, err := svc.Borrow(ctx, BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2, Note: "demo"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected assigned borrow id")
	}
	if record.Status != enums.BorrowStatusBorrowed {
		t.Fatalf("expected borrowed status, got %s", record.Status)
	}
	if record.BorrowDate.IsZero() {
		t.Fatal("expected borrow date stamped")
	}

	var stored models.Item
	if err := conn.First(&stored, "item_id = ?", item.ItemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("expected quantity 3 after borrow, got %d", stored.Quantity)
	}
}

func TestBorrowInsufficientStock(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	item, user := seedItem(t, conn, 1)

	_, err := svc.Borrow(context.Background(), BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2})
	expectCode(t, err, pkgerrors.CodeInsufficientStock)

	var records int64
	if err := conn.Model(&models.BorrowTransaction{}).Count(&records).Error; err != nil {
		t.Fatalf("count borrows: %v", err)
	}
	if records != 0 {
		t.Fatalf("failed borrow must not be recorded, got %d", records)
	}
}

func TestReturnFull(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	item, user := seedItem(t, conn, 5)

	record, err := svc.Borrow(ctx, BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 3, Note: "lab session"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	result, err := svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 3, Condition: "good", Note: "no damage"})
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if result.Outstanding != 0 {
		t.Fatalf("expected nothing outstanding, got %d", result.Outstanding)
	}
	if result.NewQuantity != 5 {
		t.Fatalf("expected stock restored to 5, got %d", result.NewQuantity)
	}
	if result.Record.Status != enums.BorrowStatusReturned {
		t.Fatalf("expected returned status, got %s", result.Record.Status)
	}
	if result.Record.ReturnDate == nil {
		t.Fatal("expected return date stamped")
	}
	if !strings.Contains(result.Record.Note, "lab session") || !strings.Contains(result.Record.Note, "returned (good): no damage") {
		t.Fatalf("expected original note plus return note, got %q", result.Record.Note)
	}
}

func TestReturnPartial(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	item, user := seedItem(t, conn, 5)

	record, err := svc.Borrow(ctx, BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 3})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	result, err := svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 1})
	if err != nil {
		t.Fatalf("partial return: %v", err)
	}
	if result.Outstanding != 2 {
		t.Fatalf("expected 2 outstanding, got %d", result.Outstanding)
	}
	if result.Record.Status != enums.BorrowStatusBorrowed {
		t.Fatalf("partial return must keep borrowed status, got %s", result.Record.Status)
	}

	var stored models.BorrowTransaction
	if err := conn.First(&stored, "id = ?", record.ID).Error; err != nil {
		t.Fatalf("reload borrow: %v", err)
	}
	if stored.Amount != 2 {
		t.Fatalf("expected outstanding amount 2 persisted, got %d", stored.Amount)
	}
	if stored.ReturnDate != nil {
		t.Fatal("partial return must not stamp return date")
	}

	// Returning the rest closes the record.
	result, err = svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 2})
	if err != nil {
		t.Fatalf("final return: %v", err)
	}
	if result.Outstanding != 0 || result.Record.Status != enums.BorrowStatusReturned {
		t.Fatalf("expected closed record, got %+v", result)
	}
	if result.NewQuantity != 5 {
		t.Fatalf("expected full stock restored, got %d", result.NewQuantity)
	}
}

func TestReturnOverReturn(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	item, user := seedItem(t, conn, 5)

	record, err := svc.Borrow(ctx, BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	_, err = svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 3})
	expectCode(t, err, pkgerrors.CodeOverReturn)

	var stored models.Item
	if err := conn.First(&stored, "item_id = ?", item.ItemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("over-return must not restock, got %d", stored.Quantity)
	}
}

func TestReturnAlreadyReturned(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	item, user := seedItem(t, conn, 5)

	record, err := svc.Borrow(ctx, BorrowInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 2}); err != nil {
		t.Fatalf("return: %v", err)
	}

	_, err = svc.Return(ctx, ReturnInput{BorrowID: record.ID, ReturnAmount: 1})
	expectCode(t, err, pkgerrors.CodeOverReturn)
}

func TestReturnValidation(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	_, err := svc.Return(ctx, ReturnInput{BorrowID: 1, ReturnAmount: 0})
	expectCode(t, err, pkgerrors.CodeInvalidAmount)

	_, err = svc.Return(ctx, ReturnInput{BorrowID: 404, ReturnAmount: 1})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestAppendReturnNote(t *testing.T) {
	if got := appendReturnNote("", "", ""); got != "returned (ok)" {
		t.Fatalf("unexpected note: %q", got)
	}
	if got := appendReturnNote("field trip", "damaged", "lens cracked"); got != "field trip | returned (damaged): lens cracked" {
		t.Fatalf("unexpected note: %q", got)
	}
}
