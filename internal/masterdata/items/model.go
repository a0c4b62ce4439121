// Package items manages the sellable item catalog.
package items

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	SectionID   int64     `json:"section_id"`
	SectionName string    `json:"section_name,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	Unit        string    `json:"unit"`
	Cost        float64   `json:"cost"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ItemInput struct {
	Code      string  `json:"code" validate:"required,max=24"`
	Name      string  `json:"name" validate:"required,max=160"`
	SectionID int64   `json:"section_id" validate:"required,gt=0"`
	Barcode   string  `json:"barcode" validate:"omitempty,max=48"`
	Unit      string  `json:"unit" validate:"required,max=16"`
	Cost      float64 `json:"cost" validate:"gte=0"`
	Price     float64 `json:"price" validate:"gte=0"`
	Active    bool    `json:"active"`
}
