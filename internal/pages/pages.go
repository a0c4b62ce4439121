// Package pages assembles the tabbed master-data screens: each page owns a
// tab controller wired to the domain services, persisted tab preferences and
// per-request notification collection.
package pages

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/masterdata/customers"
	"github.com/meridian-erp/meridian/internal/masterdata/geo"
	"github.com/meridian-erp/meridian/internal/masterdata/items"
	"github.com/meridian-erp/meridian/internal/masterdata/paymentterms"
	"github.com/meridian-erp/meridian/internal/masterdata/sections"
	"github.com/meridian-erp/meridian/internal/masterdata/suppliers"
	"github.com/meridian-erp/meridian/internal/prefs"
	"github.com/meridian-erp/meridian/internal/tabs"
)

// Page names. Each one is also the prefix of its persisted tab preference.
const (
	PageGeography = "geography"
	PageTrade     = "trade"
	PageCatalog   = "catalog"
)

// Deps carries the services the pages are built on.
type Deps struct {
	Logger *slog.Logger
	Redis  *redis.Client
	PDF    exports.PDFRenderer

	Geo          *geo.Service
	Customers    *customers.Service
	Suppliers    *suppliers.Service
	PaymentTerms *paymentterms.Service
	Items        *items.Service
	Sections     *sections.Service
}

// Registry hands out one session per user and page.
type Registry struct {
	deps     Deps
	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*session)}
}

func (r *Registry) session(user, page string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := user + "/" + page
	if sess, ok := r.sessions[key]; ok {
		return sess, nil
	}

	sess, err := r.build(user, page)
	if err != nil {
		return nil, err
	}
	r.sessions[key] = sess
	return sess, nil
}

// drop removes a session after teardown.
func (r *Registry) drop(user, page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, user+"/"+page)
}

func (r *Registry) build(user, page string) (*session, error) {
	sess := &session{
		notes:    &notifier{},
		url:      &urlState{},
		download: &download{},
	}

	cfg := tabs.Config{
		Page:       page,
		Store:      prefs.NewStore(r.deps.Redis, r.deps.Logger, user),
		URL:        sess.url,
		Notifier:   sess.notes,
		Downloader: sess.download,
	}

	switch page {
	case PageGeography:
		cfg.Kinds = []tabs.Kind{"country", "zone", "city", "district"}
		cfg.Adapters = map[tabs.Kind]tabs.Adapter{
			"country":  countryAdapter(r.deps.Geo),
			"zone":     zoneAdapter(r.deps.Geo),
			"city":     cityAdapter(r.deps.Geo),
			"district": districtAdapter(r.deps.Geo),
		}
		cfg.Exporters = map[tabs.Kind]tabs.Exporter{
			"country":  tableExporter{table: r.deps.Geo.CountryTable, pdf: r.deps.PDF, importFn: r.deps.Geo.ImportCountries},
			"zone":     tableExporter{table: r.deps.Geo.ZoneTable, pdf: r.deps.PDF, importFn: r.deps.Geo.ImportZones},
			"city":     tableExporter{table: r.deps.Geo.CityTable, pdf: r.deps.PDF, importFn: r.deps.Geo.ImportCities},
			"district": tableExporter{table: r.deps.Geo.DistrictTable, pdf: r.deps.PDF, importFn: r.deps.Geo.ImportDistricts},
		}
		cfg.Defaults = map[tabs.Kind]tabs.Record{
			"country":  {"active": true},
			"zone":     {"active": true},
			"city":     {"active": true},
			"district": {"active": true},
		}
	case PageTrade:
		cfg.Kinds = []tabs.Kind{"customer", "supplier", "paymentterm"}
		cfg.Adapters = map[tabs.Kind]tabs.Adapter{
			"customer":    customerAdapter(r.deps.Customers),
			"supplier":    supplierAdapter(r.deps.Suppliers),
			"paymentterm": paymentTermAdapter(r.deps.PaymentTerms),
		}
		cfg.Exporters = map[tabs.Kind]tabs.Exporter{
			"customer":    tableExporter{table: r.deps.Customers.Table, pdf: r.deps.PDF, importFn: r.deps.Customers.ImportRows},
			"supplier":    tableExporter{table: r.deps.Suppliers.Table, pdf: r.deps.PDF, importFn: r.deps.Suppliers.ImportRows},
			"paymentterm": tableExporter{table: r.deps.PaymentTerms.Table, pdf: r.deps.PDF, importFn: r.deps.PaymentTerms.ImportRows},
		}
		cfg.Defaults = map[tabs.Kind]tabs.Record{
			"customer":    {"active": true, "credit_limit": float64(0)},
			"supplier":    {"active": true},
			"paymentterm": {"active": true, "days": float64(0)},
		}
	case PageCatalog:
		cfg.Kinds = []tabs.Kind{"item", "section"}
		cfg.Adapters = map[tabs.Kind]tabs.Adapter{
			"item":    itemAdapter(r.deps.Items),
			"section": sectionAdapter(r.deps.Sections),
		}
		cfg.Exporters = map[tabs.Kind]tabs.Exporter{
			"item":    tableExporter{table: r.deps.Items.Table, pdf: r.deps.PDF, importFn: r.deps.Items.ImportRows},
			"section": tableExporter{table: r.deps.Sections.Table, pdf: r.deps.PDF, importFn: r.deps.Sections.ImportRows},
		}
		cfg.Defaults = map[tabs.Kind]tabs.Record{
			"item":    {"active": true},
			"section": {"active": true},
		}
	default:
		return nil, fmt.Errorf("pages: unknown page %q", page)
	}

	sess.ctrl = tabs.New(cfg)
	return sess, nil
}
