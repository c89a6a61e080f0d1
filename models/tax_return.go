// models/tax_return.go
package models

import "time"

// Tax return statuses.
const (
	ReturnStatusFiled = "filed"
	ReturnStatusPaid  = "paid"
)

// TaxReturn is a filed yearly return. The money columns are computed from
// the user's expenses at filing time and frozen on the row.
type TaxReturn struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Year            int       `json:"year"`
	Status          string    `json:"status"`
	TotalExpenses   float64   `json:"totalExpenses"`
	TotalDeductions float64   `json:"totalDeductions"`
	TaxOwed         float64   `json:"taxOwed"`
	TaxPaid         float64   `json:"taxPaid"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TaxReturnRequest files a return for a year
type TaxReturnRequest struct {
	Year int `json:"year" validate:"required,gte=1990,lte=2100"`
}

// ReturnStatusRequest updates a return's status (admin)
type ReturnStatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=filed paid"`
	TaxPaid float64 `json:"taxPaid" validate:"gte=0"`
}

// UserReportRow is one GROUP BY role aggregate for the admin user report.
type UserReportRow struct {
	Role     string `json:"role"`
	Total    int    `json:"total"`
	Approved int    `json:"approved"`
	Pending  int    `json:"pending"`
}

// FilingReportRow is one GROUP BY year+status aggregate for the admin
// tax-filings report.
type FilingReportRow struct {
	Year         int     `json:"year"`
	Status       string  `json:"status"`
	Count        int     `json:"count"`
	TotalTaxOwed float64 `json:"totalTaxOwed"`
	TotalTaxPaid float64 `json:"totalTaxPaid"`
}

// DashboardSummary is the per-user dashboard projection.
type DashboardSummary struct {
	TotalExpenses   float64   `json:"totalExpenses"`
	ExpenseCount    int       `json:"expenseCount"`
	LastExpenseDate *string   `json:"lastExpenseDate"`
	TopCategory     *string   `json:"topCategory"`
	TotalDeductions float64   `json:"totalDeductions"`
	RecentExpenses  []Expense `json:"recentExpenses"`
}
