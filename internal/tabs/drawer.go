package tabs

import "context"

// DrawerMode distinguishes create from edit sessions.
type DrawerMode string

const (
	ModeCreate DrawerMode = "create"
	ModeEdit   DrawerMode = "edit"
)

// DrawerSession holds the side-drawer form state. At most one session is open
// per page; Kind is immutable for the session's lifetime.
type DrawerSession struct {
	IsOpen bool       `json:"is_open"`
	Kind   Kind       `json:"kind"`
	Mode   DrawerMode `json:"mode,omitempty"`
	Draft  Record     `json:"draft,omitempty"`
}

// Add opens the drawer in create mode with kind's default draft.
func (c *Controller) Add(kind Kind) error {
	if _, ok := c.adapters[kind]; !ok {
		return ErrUnknownKind
	}
	c.drawer = DrawerSession{
		IsOpen: true,
		Kind:   kind,
		Mode:   ModeCreate,
		Draft:  c.defaultDraft(kind),
	}
	return nil
}

// EditRecord opens the drawer in edit mode seeded from a shallow copy of the
// existing record.
func (c *Controller) EditRecord(kind Kind, record Record) error {
	if _, ok := c.adapters[kind]; !ok {
		return ErrUnknownKind
	}
	c.drawer = DrawerSession{
		IsOpen: true,
		Kind:   kind,
		Mode:   ModeEdit,
		Draft:  record.Clone(),
	}
	return nil
}

// SetDraftField updates one field of the in-progress draft.
func (c *Controller) SetDraftField(key string, value any) error {
	if !c.drawer.IsOpen {
		return ErrDrawerClosed
	}
	if c.drawer.Draft == nil {
		c.drawer.Draft = Record{}
	}
	c.drawer.Draft[key] = value
	return nil
}

// CloseDrawer discards the session and its draft.
func (c *Controller) CloseDrawer() {
	c.drawer = DrawerSession{}
}

// Save commits the draft and keeps the drawer open with the draft intact.
func (c *Controller) Save(ctx context.Context) error {
	_, err := c.commitDraft(ctx)
	return err
}

// SaveAndNew commits the draft, then resets the drawer to a fresh create
// session for the same kind, even when the session was in edit mode.
func (c *Controller) SaveAndNew(ctx context.Context) error {
	kind := c.drawer.Kind
	if _, err := c.commitDraft(ctx); err != nil {
		return err
	}
	c.drawer = DrawerSession{
		IsOpen: true,
		Kind:   kind,
		Mode:   ModeCreate,
		Draft:  c.defaultDraft(kind),
	}
	return nil
}

// SaveAndClose commits the draft and closes the drawer.
func (c *Controller) SaveAndClose(ctx context.Context) error {
	if _, err := c.commitDraft(ctx); err != nil {
		return err
	}
	c.CloseDrawer()
	return nil
}

// commitDraft runs the shared commit protocol: one network write, list patch
// from the response, cache invalidation. Re-entrant calls while a save is in
// flight are rejected without firing a second request. On failure the drawer
// stays open with the draft intact.
func (c *Controller) commitDraft(ctx context.Context) (Record, error) {
	if c.tornDown {
		return nil, ErrTornDown
	}
	if !c.drawer.IsOpen {
		return nil, ErrDrawerClosed
	}
	if c.saving {
		return nil, ErrSaveInFlight
	}
	kind := c.drawer.Kind
	adapter, ok := c.adapters[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	c.saving = true
	defer func() { c.saving = false }()

	c.invalidate(kind)

	var (
		resp Response
		err  error
	)
	if c.drawer.Mode == ModeEdit {
		resp, err = adapter.Edit(ctx, c.drawer.Draft.ID(), c.drawer.Draft)
	} else {
		resp, err = adapter.Create(ctx, c.drawer.Draft)
	}
	if c.tornDown {
		return nil, ErrTornDown
	}
	if err != nil || !resp.Status {
		msg := failureMessage(resp, err, "Could not save record")
		c.notifyError("Save failed", msg)
		if err == nil {
			err = errRejected(msg)
		}
		return nil, err
	}

	if c.drawer.Mode == ModeEdit {
		c.patchRecord(kind, resp.Data)
		c.notifySuccess("Saved", "Record updated")
	} else {
		c.appendRecord(kind, resp.Data)
		c.notifySuccess("Saved", "Record created")
	}
	return resp.Data, nil
}

func (c *Controller) defaultDraft(kind Kind) Record {
	if d, ok := c.defaults[kind]; ok {
		return d.Clone()
	}
	return Record{"active": true}
}

func (c *Controller) appendRecord(kind Kind, record Record) {
	if record == nil {
		return
	}
	c.setData(kind, append(c.lists[kind], record))
}

func (c *Controller) patchRecord(kind Kind, record Record) {
	if record == nil || record.ID() == nil {
		return
	}
	list := c.lists[kind]
	for i := range list {
		if sameID(list[i].ID(), record.ID()) {
			patched := append([]Record(nil), list...)
			patched[i] = record
			c.setData(kind, patched)
			return
		}
	}
}
