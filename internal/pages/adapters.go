package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/meridian-erp/meridian/internal/masterdata/customers"
	"github.com/meridian-erp/meridian/internal/masterdata/geo"
	"github.com/meridian-erp/meridian/internal/masterdata/items"
	"github.com/meridian-erp/meridian/internal/masterdata/paymentterms"
	"github.com/meridian-erp/meridian/internal/masterdata/sections"
	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/masterdata/suppliers"
	"github.com/meridian-erp/meridian/internal/tabs"
)

// serviceAdapter bridges one entity service onto the tab controller's CRUD
// contract through closures.
type serviceAdapter struct {
	list   func(ctx context.Context) (tabs.ListResponse, error)
	create func(ctx context.Context, draft tabs.Record) (tabs.Response, error)
	edit   func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error)
	remove func(ctx context.Context, id any) (tabs.Response, error)
}

func (a serviceAdapter) List(ctx context.Context) (tabs.ListResponse, error) {
	return a.list(ctx)
}

func (a serviceAdapter) Create(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
	return a.create(ctx, draft)
}

func (a serviceAdapter) Edit(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
	return a.edit(ctx, id, draft)
}

func (a serviceAdapter) Delete(ctx context.Context, id any) (tabs.Response, error) {
	return a.remove(ctx, id)
}

// toRecord projects a typed model onto the controller's loose record shape.
func toRecord(v any) tabs.Record {
	data, err := json.Marshal(v)
	if err != nil {
		return tabs.Record{}
	}
	var rec tabs.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return tabs.Record{}
	}
	return rec
}

// decodeDraft does the reverse projection for write payloads.
func decodeDraft(draft tabs.Record, target any) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func recordID(id any) (int64, error) {
	switch v := id.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("pages: bad record id %q", v)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("pages: bad record id type %T", id)
}

func listRecords[T any](models []T) []tabs.Record {
	records := make([]tabs.Record, 0, len(models))
	for i := range models {
		records = append(records, toRecord(models[i]))
	}
	return records
}

func successResponse(model any, message string) (tabs.Response, error) {
	return tabs.Response{Status: true, Data: toRecord(model), Message: message}, nil
}

// rejection wraps a domain error as a business rejection rather than a
// transport failure, mirroring a falsy envelope with HTTP 200.
func rejection(err error) (tabs.Response, error) {
	return tabs.Response{Status: false, Message: err.Error()}, nil
}

func countryAdapter(svc *geo.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			countries, _, err := svc.ListCountries(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(countries)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in geo.CountryInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.CreateCountry(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Country created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in geo.CountryInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.UpdateCountry(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Country updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.DeleteCountry(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Country deleted successfully"}, nil
		},
	}
}

func zoneAdapter(svc *geo.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			zones, _, err := svc.ListZones(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(zones)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in geo.ZoneInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.CreateZone(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Zone created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in geo.ZoneInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.UpdateZone(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Zone updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.DeleteZone(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Zone deleted successfully"}, nil
		},
	}
}

func cityAdapter(svc *geo.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			cities, _, err := svc.ListCities(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(cities)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in geo.CityInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.CreateCity(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "City created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in geo.CityInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.UpdateCity(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "City updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.DeleteCity(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "City deleted successfully"}, nil
		},
	}
}

func districtAdapter(svc *geo.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			districts, _, err := svc.ListDistricts(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(districts)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in geo.DistrictInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.CreateDistrict(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "District created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in geo.DistrictInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.UpdateDistrict(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "District updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.DeleteDistrict(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "District deleted successfully"}, nil
		},
	}
}

// customerAdapter goes through the typed wire mapper so nested collections
// survive the drawer round trip.
func customerAdapter(svc *customers.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			list, _, err := svc.List(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			records := make([]tabs.Record, 0, len(list))
			for i := range list {
				records = append(records, customers.FromWire(list[i]))
			}
			return tabs.ListResponse{Data: records}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			in, err := customers.ToWire(draft)
			if err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.Create(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Data: customers.FromWire(created), Message: "Customer created successfully"}, nil
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			in, err := customers.ToWire(draft)
			if err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.Update(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Data: customers.FromWire(updated), Message: "Customer updated successfully"}, nil
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.Delete(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Customer deleted successfully"}, nil
		},
	}
}

func supplierAdapter(svc *suppliers.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			list, _, err := svc.List(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(list)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in suppliers.SupplierInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.Create(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Supplier created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in suppliers.SupplierInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.Update(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Supplier updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.Delete(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Supplier deleted successfully"}, nil
		},
	}
}

func paymentTermAdapter(svc *paymentterms.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			list, _, err := svc.List(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(list)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in paymentterms.PaymentTermInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.Create(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Payment term created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in paymentterms.PaymentTermInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.Update(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Payment term updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.Delete(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Payment term deleted successfully"}, nil
		},
	}
}

func itemAdapter(svc *items.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			list, _, err := svc.List(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(list)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in items.ItemInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.Create(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Item created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in items.ItemInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.Update(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Item updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.Delete(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Item deleted successfully"}, nil
		},
	}
}

func sectionAdapter(svc *sections.Service) tabs.Adapter {
	return serviceAdapter{
		list: func(ctx context.Context) (tabs.ListResponse, error) {
			list, _, err := svc.List(ctx, shared.ListFilters{})
			if err != nil {
				return tabs.ListResponse{}, err
			}
			return tabs.ListResponse{Data: listRecords(list)}, nil
		},
		create: func(ctx context.Context, draft tabs.Record) (tabs.Response, error) {
			var in sections.SectionInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			created, err := svc.Create(ctx, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(created, "Section created successfully")
		},
		edit: func(ctx context.Context, id any, draft tabs.Record) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			var in sections.SectionInput
			if err := decodeDraft(draft, &in); err != nil {
				return tabs.Response{}, err
			}
			updated, err := svc.Update(ctx, recID, in)
			if err != nil {
				return rejection(err)
			}
			return successResponse(updated, "Section updated successfully")
		},
		remove: func(ctx context.Context, id any) (tabs.Response, error) {
			recID, err := recordID(id)
			if err != nil {
				return tabs.Response{}, err
			}
			if err := svc.Delete(ctx, recID); err != nil {
				return rejection(err)
			}
			return tabs.Response{Status: true, Message: "Section deleted successfully"}, nil
		},
	}
}
