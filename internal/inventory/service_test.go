package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// One connection makes concurrent transactions queue instead of
	// hitting SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Storage{},
		&models.Item{},
		&models.Transaction{},
		&models.TransactionDetail{},
		&models.BorrowTransaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type stubNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (s *stubNotifier) LowStock(_ context.Context, _ models.Item, remaining int, _ int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, remaining)
}

func newTestService(t *testing.T, conn *gorm.DB, alerts lowStockNotifier) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Tx:     db.NewFromConn(conn),
		Repo:   NewRepository(conn),
		Alerts: alerts,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateStorage(t *testing.T, conn *gorm.DB, name, location string) *models.Storage {
	t.Helper()
	storage := &models.Storage{StorageName: name, Location: location}
	if err := conn.Create(storage).Error; err != nil {
		t.Fatalf("seed storage: %v", err)
	}
	return storage
}

func mustCreateUser(t *testing.T, conn *gorm.DB, fullname string) *models.User {
	t.Helper()
	user := &models.User{Fullname: fullname, Department: "IT"}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func mustCreateItem(t *testing.T, conn *gorm.DB, storageID int64, name string, qty int) *models.Item {
	t.Helper()
	item := &models.Item{ItemName: name, Quantity: qty, Unit: "box", StorageID: storageID}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
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

func TestAddItemValidation(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()
	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")

	t.Run("emptyName", func(t *testing.T) {
		_, err := svc.AddItem(ctx, AddItemInput{Name: "  ", Quantity: 1, Unit: "box", StorageID: storage.StorageID})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("negativeQuantity", func(t *testing.T) {
		_, err := svc.AddItem(ctx, AddItemInput{Name: "Paper", Quantity: -1, Unit: "box", StorageID: storage.StorageID})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("missingStorage", func(t *testing.T) {
		_, err := svc.AddItem(ctx, AddItemInput{Name: "Paper", Quantity: 1, Unit: "box", StorageID: 9999})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("ok", func(t *testing.T) {
		item, err := svc.AddItem(ctx, AddItemInput{Name: " Paper ", Quantity: 10, Unit: "ream", StorageID: storage.StorageID})
		if err != nil {
			t.Fatalf("add item: %v", err)
		}
		if item.ItemID == 0 {
			t.Fatal("expected assigned item id")
		}
		if item.ItemName != "Paper" {
			t.Fatalf("expected trimmed name, got %q", item.ItemName)
		}
	})
}

func TestWithdrawDecrementsAndLogs(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Stapler", 10)

	result, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 4})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if result.NewQuantity != 6 {
		t.Fatalf("expected new quantity 6, got %d", result.NewQuantity)
	}
	if result.TransactionID == 0 {
		t.Fatal("expected transaction id")
	}

	var stored models.Item
	if err := conn.First(&stored, "item_id = ?", item.ItemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 6 {
		t.Fatalf("expected stored quantity 6, got %d", stored.Quantity)
	}

	var txn models.Transaction
	if err := conn.Preload("Details").First(&txn, "transaction_id = ?", result.TransactionID).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.UserID != user.UserID {
		t.Fatalf("expected user %d on header, got %d", user.UserID, txn.UserID)
	}
	if len(txn.Details) != 1 {
		t.Fatalf("expected 1 detail line, got %d", len(txn.Details))
	}
	if txn.Details[0].ItemID != item.ItemID || txn.Details[0].Amount != 4 {
		t.Fatalf("unexpected detail line: %+v", txn.Details[0])
	}
}

func TestWithdrawInsufficientStockRollsBack(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Stapler", 3)

	_, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 5})
	expectCode(t, err, pkgerrors.CodeInsufficientStock)

	var stored models.Item
	if err := conn.First(&stored, "item_id = ?", item.ItemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("failed withdraw must not change stock, got %d", stored.Quantity)
	}

	var headers int64
	if err := conn.Model(&models.Transaction{}).Count(&headers).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if headers != 0 {
		t.Fatalf("failed withdraw must not log, got %d headers", headers)
	}
}

func TestWithdrawInvalidAmount(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	for _, amount := range []int{0, -2} {
		_, err := svc.Withdraw(ctx, WithdrawInput{ItemID: 1, UserID: 1, Amount: amount})
		expectCode(t, err, pkgerrors.CodeInvalidAmount)
	}
}

func TestWithdrawMissingItem(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)

	_, err := svc.Withdraw(context.Background(), WithdrawInput{ItemID: 404, UserID: 1, Amount: 1})
	expectCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestWithdrawLowStockAlert(t *testing.T) {
	conn := newTestDB(t)
	notifier := &stubNotifier{}
	svc := newTestService(t, conn, notifier)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Toner", 9)

	// 9 -> 7 stays above the threshold.
	if _, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("no alert expected above threshold, got %v", notifier.calls)
	}

	// 7 -> 5 hits the threshold exactly.
	if _, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 2}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != 5 {
		t.Fatalf("expected one alert with remaining 5, got %v", notifier.calls)
	}

	// Failed withdraw fires nothing.
	if _, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 50}); err == nil {
		t.Fatal("expected insufficient stock")
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("failed withdraw must not alert, got %v", notifier.calls)
	}
}

func TestDeleteItemBlockedByHistory(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Stapler", 10)

	if _, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 1}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	err := svc.DeleteItem(ctx, item.ItemID)
	expectCode(t, err, pkgerrors.CodeReferentialConflict)

	fresh := mustCreateItem(t, conn, storage.StorageID, "Unused", 2)
	if err := svc.DeleteItem(ctx, fresh.ItemID); err != nil {
		t.Fatalf("delete unreferenced item: %v", err)
	}
	var count int64
	if err := conn.Model(&models.Item{}).Where("item_id = ?", fresh.ItemID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("expected item gone")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	mustCreateStorage(t, conn, "Cabinet A", "Room 101")

	_, err := svc.UpdateItem(context.Background(), 404, UpdateItemInput{Name: "X", Quantity: 1, Unit: "box", StorageID: 1})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestConcurrentWithdrawSingleWinner(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Stapler", 5)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(ctx, WithdrawInput{ItemID: item.ItemID, UserID: user.UserID, Amount: 4})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			expectCode(t, err, pkgerrors.CodeInsufficientStock)
			conflicts++
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflicts)
	}

	var stored models.Item
	if err := conn.First(&stored, "item_id = ?", item.ItemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 1 {
		t.Fatalf("expected quantity 1 after single successful withdraw, got %d", stored.Quantity)
	}
}
