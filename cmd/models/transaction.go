package models

import (
	"time"
)

// Transaction is one recorded spend, keyed by the sender's phone number.
// Rows are insert-only; the only delete path removes every row for a user.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"column:phone_number;type:text;not null" json:"phone_number"`
	Amount      float64   `gorm:"column:amount;type:float;not null" json:"amount"`
	Item        string    `gorm:"column:item;type:text;not null" json:"item"`
	Category    string    `gorm:"column:category;type:text;not null" json:"category"`
	Store       string    `gorm:"column:store;type:text" json:"store,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// CategorySummary is one row of the per-category spending breakdown.
type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// Summary aggregates a user's spending. Computed on demand, never persisted.
type Summary struct {
	TotalSpent        float64           `json:"total_spent"`
	TransactionsCount int64             `json:"transactions_count"`
	Categories        []CategorySummary `json:"categories"`
}
