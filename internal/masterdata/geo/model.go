// Package geo holds the geography master data: countries, zones, cities and
// districts form a strict containment hierarchy scoped to one tenant.
package geo

import "time"

// Country is the top of the geography hierarchy.
type Country struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Zone is a region inside a country.
type Zone struct {
	ID          int64     `json:"id"`
	CountryID   int64     `json:"country_id"`
	CountryName string    `json:"country_name,omitempty"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// City belongs to a zone.
type City struct {
	ID        int64     `json:"id"`
	ZoneID    int64     `json:"zone_id"`
	ZoneName  string    `json:"zone_name,omitempty"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// District belongs to a city.
type District struct {
	ID        int64     `json:"id"`
	CityID    int64     `json:"city_id"`
	CityName  string    `json:"city_name,omitempty"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CountryInput is the write payload for a country.
type CountryInput struct {
	Code   string `json:"code" validate:"required,max=8"`
	Name   string `json:"name" validate:"required,max=120"`
	Active bool   `json:"active"`
}

// ZoneInput is the write payload for a zone.
type ZoneInput struct {
	CountryID int64  `json:"country_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=120"`
	Active    bool   `json:"active"`
}

// CityInput is the write payload for a city.
type CityInput struct {
	ZoneID int64  `json:"zone_id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,max=120"`
	Active bool   `json:"active"`
}

// DistrictInput is the write payload for a district.
type DistrictInput struct {
	CityID int64  `json:"city_id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,max=120"`
	Active bool   `json:"active"`
}
