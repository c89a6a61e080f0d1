// models/category.go
package models

// TaxCategory is a named deduction bucket with a percentage rate and an
// optional ceiling on the deductible amount.
type TaxCategory struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	TaxPercentage float64  `json:"taxPercentage"`
	MaxDeduction  *float64 `json:"maxDeduction,omitempty"`
	IsActive      bool     `json:"isActive"`
}

// CategoryRequest creates or updates a tax category
type CategoryRequest struct {
	Name          string   `json:"name" validate:"required,max=128"`
	Description   string   `json:"description"`
	TaxPercentage float64  `json:"taxPercentage" validate:"gte=0,lte=100"`
	MaxDeduction  *float64 `json:"maxDeduction" validate:"omitempty,gt=0"`
}

// CategoryStatusRequest toggles the active flag
type CategoryStatusRequest struct {
	IsActive bool `json:"isActive"`
}
