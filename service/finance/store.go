package finance

import (
	"fmt"

	"github.com/jaroslaw-weber/finbot-server/cmd/models"
	"gorm.io/gorm"
)

// DefaultListLimit caps ListByUser when the caller does not set a limit.
const DefaultListLimit = 50

// Store owns the transactions table. Rows are inserted and bulk-deleted per
// user, never updated.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert saves one transaction. The id and creation timestamp are assigned
// by the store; store may be empty when no merchant was mentioned.
func (s *Store) Insert(phoneNumber string, amount float64, item, category, store string) (*models.Transaction, error) {
	tx := models.Transaction{
		PhoneNumber: phoneNumber,
		Amount:      amount,
		Item:        item,
		Category:    category,
		Store:       store,
	}
	if err := s.db.Create(&tx).Error; err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &tx, nil
}

// ListByUser returns the user's transactions, most recent first, capped at
// limit. An empty slice means the user has no transactions.
func (s *Store) ListByUser(phoneNumber string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var transactions []models.Transaction
	err := s.db.
		Where("phone_number = ?", phoneNumber).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Summarize computes the user's total spend, transaction count, and
// per-category breakdown ordered by total descending. Categories with no
// rows are omitted, not zero-filled.
func (s *Store) Summarize(phoneNumber string) (*models.Summary, error) {
	var summary models.Summary
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total_spent, COUNT(*) AS transactions_count").
		Where("phone_number = ?", phoneNumber).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	categories := []models.CategorySummary{}
	err = s.db.Model(&models.Transaction{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("phone_number = ?", phoneNumber).
		Group("category").
		Order("total DESC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}

	summary.Categories = categories
	return &summary, nil
}

// Clear deletes every transaction for the user. Clearing a user with no
// transactions succeeds silently.
func (s *Store) Clear(phoneNumber string) error {
	if err := s.db.Where("phone_number = ?", phoneNumber).Delete(&models.Transaction{}).Error; err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}
