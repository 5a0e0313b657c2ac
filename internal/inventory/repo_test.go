package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/enums"
)

func TestRepositoryFindItem(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	seeded := mustCreateItem(t, conn, storage.StorageID, "Toner", 9)

	found, err := repo.FindItem(ctx, seeded.ItemID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Toner", found.ItemName)
	assert.Equal(t, 9, found.Quantity)

	missing, err := repo.FindItem(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryUpdateQuantity(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	item := mustCreateItem(t, conn, storage.StorageID, "Paper", 50)

	require.NoError(t, repo.UpdateQuantity(ctx, item.ItemID, 47))

	found, err := repo.FindItem(ctx, item.ItemID)
	require.NoError(t, err)
	assert.Equal(t, 47, found.Quantity)
}

func TestRepositoryStorageExists(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")

	ok, err := repo.StorageExists(ctx, storage.StorageID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.StorageExists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryCreateWithdrawalLinksDetails(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Toner", 9)

	txn := &models.Transaction{UserID: user.UserID, Status: enums.TransactionStatusApproved}
	details := []models.TransactionDetail{{ItemID: item.ItemID, Amount: 2}}
	require.NoError(t, repo.CreateWithdrawal(ctx, txn, details))
	require.NotZero(t, txn.TransactionID)

	var stored models.Transaction
	require.NoError(t, conn.Preload("Details").First(&stored, "transaction_id = ?", txn.TransactionID).Error)
	require.Len(t, stored.Details, 1)
	assert.Equal(t, txn.TransactionID, stored.Details[0].TransactionID)
	assert.Equal(t, item.ItemID, stored.Details[0].ItemID)
	assert.Equal(t, 2, stored.Details[0].Amount)
	assert.False(t, stored.TransactionDate.IsZero())
}

func TestRepositoryCountItemReferences(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storage := mustCreateStorage(t, conn, "Cabinet A", "Room 101")
	user := mustCreateUser(t, conn, "Alice Example")
	item := mustCreateItem(t, conn, storage.StorageID, "Toner", 9)

	refs, err := repo.CountItemReferences(ctx, item.ItemID)
	require.NoError(t, err)
	assert.Zero(t, refs)

	txn := &models.Transaction{UserID: user.UserID, Status: enums.TransactionStatusApproved}
	require.NoError(t, repo.CreateWithdrawal(ctx, txn, []models.TransactionDetail{{ItemID: item.ItemID, Amount: 1}}))
	require.NoError(t, conn.Create(&models.BorrowTransaction{
		ItemID: item.ItemID,
		UserID: user.UserID,
		Amount: 1,
		Status: enums.BorrowStatusBorrowed,
	}).Error)

	refs, err = repo.CountItemReferences(ctx, item.ItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refs)
}
