package customers

import (
	"fmt"
	"time"

	"github.com/meridian-erp/meridian/internal/tabs"
)

// ToWire converts a drawer draft into the typed write payload. Drafts arrive
// as loosely typed maps; numbers decoded from JSON are float64.
func ToWire(draft tabs.Record) (CustomerInput, error) {
	in := CustomerInput{
		Code:        stringField(draft, "code"),
		Name:        stringField(draft, "name"),
		Email:       stringField(draft, "email"),
		Phone:       stringField(draft, "phone"),
		TaxNumber:   stringField(draft, "tax_number"),
		CreditLimit: floatField(draft, "credit_limit"),
		Active:      boolField(draft, "active"),
	}

	for i, raw := range sliceField(draft, "addresses") {
		entry, ok := raw.(map[string]any)
		if !ok {
			return CustomerInput{}, fmt.Errorf("address %d: expected object, got %T", i, raw)
		}
		in.Addresses = append(in.Addresses, Address{
			ID:         int64Field(entry, "id"),
			Line1:      stringField(entry, "line1"),
			Line2:      stringField(entry, "line2"),
			CityID:     int64Field(entry, "city_id"),
			DistrictID: int64Field(entry, "district_id"),
			IsDefault:  boolField(entry, "is_default"),
		})
	}

	for i, raw := range sliceField(draft, "contacts") {
		entry, ok := raw.(map[string]any)
		if !ok {
			return CustomerInput{}, fmt.Errorf("contact %d: expected object, got %T", i, raw)
		}
		in.Contacts = append(in.Contacts, Contact{
			ID:       int64Field(entry, "id"),
			Name:     stringField(entry, "name"),
			Phone:    stringField(entry, "phone"),
			Email:    stringField(entry, "email"),
			Position: stringField(entry, "position"),
		})
	}

	for i, raw := range sliceField(draft, "opening_balances") {
		entry, ok := raw.(map[string]any)
		if !ok {
			return CustomerInput{}, fmt.Errorf("opening balance %d: expected object, got %T", i, raw)
		}
		asOf, err := timeField(entry, "as_of")
		if err != nil {
			return CustomerInput{}, fmt.Errorf("opening balance %d: %w", i, err)
		}
		in.OpeningBalances = append(in.OpeningBalances, OpeningBalance{
			ID:       int64Field(entry, "id"),
			Currency: stringField(entry, "currency"),
			Amount:   floatField(entry, "amount"),
			AsOf:     asOf,
		})
	}

	return in, nil
}

// FromWire converts a stored customer into a drawer draft.
func FromWire(c Customer) tabs.Record {
	draft := tabs.Record{
		"id":           c.ID,
		"code":         c.Code,
		"name":         c.Name,
		"email":        c.Email,
		"phone":        c.Phone,
		"tax_number":   c.TaxNumber,
		"credit_limit": c.CreditLimit,
		"active":       c.Active,
	}

	addresses := make([]any, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		addresses = append(addresses, map[string]any{
			"id":          a.ID,
			"line1":       a.Line1,
			"line2":       a.Line2,
			"city_id":     a.CityID,
			"district_id": a.DistrictID,
			"is_default":  a.IsDefault,
		})
	}
	draft["addresses"] = addresses

	contacts := make([]any, 0, len(c.Contacts))
	for _, ct := range c.Contacts {
		contacts = append(contacts, map[string]any{
			"id":       ct.ID,
			"name":     ct.Name,
			"phone":    ct.Phone,
			"email":    ct.Email,
			"position": ct.Position,
		})
	}
	draft["contacts"] = contacts

	balances := make([]any, 0, len(c.OpeningBalances))
	for _, ob := range c.OpeningBalances {
		balances = append(balances, map[string]any{
			"id":       ob.ID,
			"currency": ob.Currency,
			"amount":   ob.Amount,
			"as_of":    ob.AsOf.Format(time.RFC3339),
		})
	}
	draft["opening_balances"] = balances

	return draft
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func sliceField(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func int64Field(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func timeField(m map[string]any, key string) (time.Time, error) {
	switch v := m[key].(type) {
	case time.Time:
		return v, nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
		}
		return t, nil
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unexpected %s type %T", key, m[key])
}
