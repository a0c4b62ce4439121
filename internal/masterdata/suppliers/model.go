// Package suppliers manages the vendor master records.
package suppliers

import "time"

type Supplier struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	TaxNumber     string    `json:"tax_number,omitempty"`
	PaymentTermID int64     `json:"payment_term_id,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SupplierInput struct {
	Code          string `json:"code" validate:"required,max=16"`
	Name          string `json:"name" validate:"required,max=160"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	TaxNumber     string `json:"tax_number" validate:"omitempty,max=32"`
	PaymentTermID int64  `json:"payment_term_id" validate:"omitempty,gt=0"`
	Active        bool   `json:"active"`
}
