package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaroslaw-weber/finbot-server/cmd/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Transaction{}))
	return NewStore(db)
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)

	tx, err := store.Insert("+15550001", 5.5, "coffee", "food", "Starbucks")
	require.NoError(t, err)

	assert.NotZero(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.Equal(t, "+15550001", tx.PhoneNumber)
	assert.Equal(t, 5.5, tx.Amount)
	assert.Equal(t, "coffee", tx.Item)
	assert.Equal(t, "food", tx.Category)
	assert.Equal(t, "Starbucks", tx.Store)
}

func TestInsertThenSummarizeSingleUser(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Insert("+15550001", 12.34, "lunch", "food", "")
	require.NoError(t, err)

	summary, err := store.Summarize("+15550001")
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TransactionsCount)
	assert.Equal(t, 12.34, summary.TotalSpent)
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, "food", summary.Categories[0].Category)
	assert.Equal(t, 12.34, summary.Categories[0].Total)
	assert.Equal(t, int64(1), summary.Categories[0].Count)
}

func TestSummarizeEmptyUser(t *testing.T) {
	store := newTestStore(t)

	summary, err := store.Summarize("+15550001")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TransactionsCount)
	assert.Equal(t, float64(0), summary.TotalSpent)
	assert.Empty(t, summary.Categories)
}

func TestSummarizeCategoriesOrderedByTotal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Insert("+15550001", 5, "coffee", "food", "")
	require.NoError(t, err)
	_, err = store.Insert("+15550001", 7, "sandwich", "food", "")
	require.NoError(t, err)
	_, err = store.Insert("+15550001", 80, "shoes", "shopping", "")
	require.NoError(t, err)
	_, err = store.Insert("+15550001", 20, "gas", "transport", "")
	require.NoError(t, err)

	summary, err := store.Summarize("+15550001")
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TransactionsCount)
	assert.InDelta(t, 112, summary.TotalSpent, 0.001)

	require.Len(t, summary.Categories, 3)
	assert.Equal(t, "shopping", summary.Categories[0].Category)
	assert.Equal(t, "transport", summary.Categories[1].Category)
	assert.Equal(t, "food", summary.Categories[2].Category)
	assert.Equal(t, int64(2), summary.Categories[2].Count)
	assert.InDelta(t, 12, summary.Categories[2].Total, 0.001)
}

func TestSummarizePartitionsByUser(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Insert("+15550001", 10, "book", "shopping", "")
	require.NoError(t, err)
	_, err = store.Insert("+15550002", 99, "console", "entertainment", "")
	require.NoError(t, err)

	summary, err := store.Summarize("+15550001")
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TransactionsCount)
	assert.Equal(t, float64(10), summary.TotalSpent)
}

func TestListByUserNewestFirst(t *testing.T) {
	store := newTestStore(t)

	// Explicit timestamps so creation order and insertion order disagree.
	old := models.Transaction{
		PhoneNumber: "+15550001", Amount: 3, Item: "old", Category: "other",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.db.Create(&old).Error)
	recent := models.Transaction{
		PhoneNumber: "+15550001", Amount: 4, Item: "recent", Category: "other",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.db.Create(&recent).Error)

	transactions, err := store.ListByUser("+15550001", 0)
	require.NoError(t, err)

	require.Len(t, transactions, 2)
	assert.Equal(t, "recent", transactions[0].Item)
	assert.Equal(t, "old", transactions[1].Item)
}

func TestListByUserLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 1; i <= 12; i++ {
		_, err := store.Insert("+15550001", float64(i), fmt.Sprintf("item-%d", i), "other", "")
		require.NoError(t, err)
	}

	transactions, err := store.ListByUser("+15550001", 10)
	require.NoError(t, err)

	require.Len(t, transactions, 10)
	assert.Equal(t, "item-12", transactions[0].Item)
	assert.Equal(t, "item-3", transactions[9].Item)
}

func TestListByUserEmpty(t *testing.T) {
	store := newTestStore(t)

	transactions, err := store.ListByUser("+15550001", 10)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestClearRemovesOnlyThatUser(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Insert("+15550001", 5, "coffee", "food", "")
		require.NoError(t, err)
	}
	_, err := store.Insert("+15550002", 8, "ticket", "entertainment", "")
	require.NoError(t, err)

	require.NoError(t, store.Clear("+15550001"))

	summary, err := store.Summarize("+15550001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TransactionsCount)

	transactions, err := store.ListByUser("+15550001", 10)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	other, err := store.Summarize("+15550002")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.TransactionsCount)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Clear("+15550001"))
	require.NoError(t, store.Clear("+15550001"))
}
