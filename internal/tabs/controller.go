package tabs

import (
	"strconv"
)

// Controller owns the state of one tabbed master-data page. A controller is
// created per page mount and is owned by that mount exclusively; its methods
// are meant to be driven from a single event loop and are not safe for
// concurrent use.
type Controller struct {
	page      string
	kinds     []Kind
	adapters  map[Kind]Adapter
	exporters map[Kind]Exporter
	defaults  map[Kind]Record

	store    Store
	url      URLState
	notify   Notifier
	download Downloader

	active   int
	fetched  map[Kind]bool
	lists    map[Kind][]Record
	loading  bool
	saving   bool
	tornDown bool

	// issued/applied sequence numbers guard against a stale list response
	// overwriting a newer one when loads overlap.
	issued  map[Kind]uint64
	applied map[Kind]uint64

	drawer DrawerSession

	// onData callbacks mirror each kind's list into the rendering widget.
	onData map[Kind]func([]Record)
}

// Config carries everything a page needs to build its controller.
type Config struct {
	// Page names the screen and prefixes the persisted preference key.
	Page string
	// Kinds lists the page's tabs in display order.
	Kinds []Kind
	// Adapters maps each kind to its CRUD endpoints. Every kind in Kinds
	// must have an adapter.
	Adapters map[Kind]Adapter
	// Exporters is optional per kind; kinds without one reject bulk actions.
	Exporters map[Kind]Exporter
	// Defaults seeds create-mode drafts, commonly {"active": true}.
	Defaults map[Kind]Record

	Store      Store
	URL        URLState
	Notifier   Notifier
	Downloader Downloader
}

// New builds a controller. It does not touch the network; call Mount next.
func New(cfg Config) *Controller {
	c := &Controller{
		page:      cfg.Page,
		kinds:     append([]Kind(nil), cfg.Kinds...),
		adapters:  cfg.Adapters,
		exporters: cfg.Exporters,
		defaults:  cfg.Defaults,
		store:     cfg.Store,
		url:       cfg.URL,
		notify:    cfg.Notifier,
		download:  cfg.Downloader,
		fetched:   make(map[Kind]bool, len(cfg.Kinds)),
		lists:     make(map[Kind][]Record, len(cfg.Kinds)),
		issued:    make(map[Kind]uint64, len(cfg.Kinds)),
		applied:   make(map[Kind]uint64, len(cfg.Kinds)),
		onData:    make(map[Kind]func([]Record)),
	}
	if c.adapters == nil {
		c.adapters = map[Kind]Adapter{}
	}
	if c.exporters == nil {
		c.exporters = map[Kind]Exporter{}
	}
	if c.defaults == nil {
		c.defaults = map[Kind]Record{}
	}
	return c
}

// BindData registers the rendering widget's list updater for a kind.
func (c *Controller) BindData(kind Kind, fn func([]Record)) {
	c.onData[kind] = fn
}

// Kinds returns the page's tabs in display order.
func (c *Controller) Kinds() []Kind { return c.kinds }

// ActiveIndex returns the current tab index.
func (c *Controller) ActiveIndex() int { return c.active }

// ActiveKind returns the kind shown by the current tab.
func (c *Controller) ActiveKind() Kind {
	if c.active < 0 || c.active >= len(c.kinds) {
		return ""
	}
	return c.kinds[c.active]
}

// Loading reports whether a list fetch is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Fetched reports whether kind's list has been loaded since the last
// invalidation.
func (c *Controller) Fetched(kind Kind) bool { return c.fetched[kind] }

// List returns the in-memory list for kind. Callers must not mutate it.
func (c *Controller) List(kind Kind) []Record { return c.lists[kind] }

// Drawer returns the current drawer session state.
func (c *Controller) Drawer() DrawerSession { return c.drawer }

// Teardown marks the page as unmounted. Later responses are dropped instead
// of mutating state.
func (c *Controller) Teardown() { c.tornDown = true }

func (c *Controller) prefKey() string { return c.page + "LastTab" }

// resolveTab applies the mount-time priority order: URL parameter first, then
// the persisted preference, then tab zero. The URL is canonical afterwards.
func (c *Controller) resolveTab() int {
	if c.url != nil {
		if idx, ok := parseTab(c.url.Tab(), len(c.kinds)); ok {
			if c.store != nil {
				c.store.Set(c.prefKey(), strconv.Itoa(idx))
			}
			return idx
		}
	}
	if c.store != nil {
		if idx, ok := parseTab(c.store.Get(c.prefKey()), len(c.kinds)); ok {
			if c.url != nil {
				c.url.SetTab(strconv.Itoa(idx))
			}
			return idx
		}
	}
	return 0
}

// parseTab accepts a stringified non-negative integer below count. Anything
// malformed is treated as absent.
func parseTab(raw string, count int) (int, bool) {
	if raw == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false
	}
	if count > 0 && idx >= count {
		return 0, false
	}
	return idx, true
}

func (c *Controller) setData(kind Kind, list []Record) {
	c.lists[kind] = list
	if fn := c.onData[kind]; fn != nil {
		fn(list)
	}
}

func (c *Controller) notifyError(title, description string) {
	if c.notify != nil {
		c.notify.Error(title, description)
	}
}

func (c *Controller) notifySuccess(title, description string) {
	if c.notify != nil {
		c.notify.Success(title, description)
	}
}

// failureMessage prefers the response message, then the error, then a
// per-action fallback.
func failureMessage(resp Response, err error, fallback string) string {
	if resp.Message != "" {
		return resp.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
