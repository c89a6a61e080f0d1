// models/tax_profile.go
package models

import "time"

// TaxProfile holds the filing metadata attached one-to-one to a user.
type TaxProfile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	TaxID        string    `json:"taxId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`
	Address      string    `json:"address,omitempty"`
	FilingStatus string    `json:"filingStatus"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TaxProfileRequest upserts the caller's tax profile
type TaxProfileRequest struct {
	TaxID        string `json:"taxId" validate:"required,max=64"`
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	DateOfBirth  string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address      string `json:"address"`
	FilingStatus string `json:"filingStatus" validate:"required,oneof=single married_joint married_separate head_of_household"`
}
