// Package paymentterms manages payment term definitions used on supplier
// and customer documents.
package paymentterms

import "time"

type PaymentTerm struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Days      int       `json:"days"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentTermInput struct {
	Name   string `json:"name" validate:"required,max=120"`
	Days   int    `json:"days" validate:"gte=0,lte=365"`
	Active bool   `json:"active"`
}
