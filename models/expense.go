// models/expense.go
package models

import "time"

// Expense model. Rows are always owner-scoped by UserID.
type Expense struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description,omitempty"`
	Date         time.Time `json:"date"`
	ReceiptURL   string    `json:"receiptUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExpenseRequest creates or updates an expense
type ExpenseRequest struct {
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	ReceiptURL  string  `json:"receiptUrl"`
}

// ExpenseFilter narrows an expense listing. Zero values mean "no filter".
type ExpenseFilter struct {
	CategoryID int64
	StartDate  string
	EndDate    string
	MinAmount  float64
	MaxAmount  float64
}
