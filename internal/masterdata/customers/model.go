// Package customers manages the trade customer master records including
// their nested addresses, contacts and opening balances.
package customers

import "time"

type Customer struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	TaxNumber   string    `json:"tax_number,omitempty"`
	CreditLimit float64   `json:"credit_limit"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Addresses       []Address        `json:"addresses"`
	Contacts        []Contact        `json:"contacts"`
	OpeningBalances []OpeningBalance `json:"opening_balances"`
}

type Address struct {
	ID         int64  `json:"id,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	CityID     int64  `json:"city_id"`
	DistrictID int64  `json:"district_id,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

type Contact struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Position string `json:"position,omitempty"`
}

// OpeningBalance is the balance carried in from a previous system as of a
// cutover date, one row per currency.
type OpeningBalance struct {
	ID       int64     `json:"id,omitempty"`
	Currency string    `json:"currency"`
	Amount   float64   `json:"amount"`
	AsOf     time.Time `json:"as_of"`
}

// CustomerInput is the write payload. Nested collections replace the stored
// ones wholesale on update.
type CustomerInput struct {
	Code        string  `json:"code" validate:"required,max=16"`
	Name        string  `json:"name" validate:"required,max=160"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Phone       string  `json:"phone" validate:"omitempty,max=32"`
	TaxNumber   string  `json:"tax_number" validate:"omitempty,max=32"`
	CreditLimit float64 `json:"credit_limit" validate:"gte=0"`
	Active      bool    `json:"active"`

	Addresses       []Address        `json:"addresses" validate:"dive"`
	Contacts        []Contact        `json:"contacts" validate:"dive"`
	OpeningBalances []OpeningBalance `json:"opening_balances" validate:"dive"`
}
