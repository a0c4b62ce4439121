package tabs

import (
	"context"
	"strconv"
)

// Mount resolves the active tab from the URL and persisted preference, then
// loads that tab's data. Call once after New.
func (c *Controller) Mount(ctx context.Context) error {
	c.active = c.resolveTab()
	return c.EnsureLoaded(ctx, c.ActiveKind(), false)
}

// SelectTab switches to tab idx, synchronously updating both the persisted
// preference and the URL, then lazily loads the tab's data.
func (c *Controller) SelectTab(ctx context.Context, idx int) error {
	if idx < 0 || idx >= len(c.kinds) {
		return ErrUnknownKind
	}
	c.active = idx
	if c.store != nil {
		c.store.Set(c.prefKey(), strconv.Itoa(idx))
	}
	if c.url != nil {
		c.url.SetTab(strconv.Itoa(idx))
	}
	return c.EnsureLoaded(ctx, c.kinds[idx], false)
}

// Refresh force-reloads the active tab.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.EnsureLoaded(ctx, c.ActiveKind(), true)
}

// EnsureLoaded fetches kind's list unless it is already cached. With
// force=true the cache flag is bypassed. A failed fetch leaves the flag at
// its prior value so the next activation retries; a stale response (one that
// resolves after a newer response for the same kind has been applied) is
// discarded without touching state.
func (c *Controller) EnsureLoaded(ctx context.Context, kind Kind, force bool) error {
	if c.tornDown {
		return ErrTornDown
	}
	adapter, ok := c.adapters[kind]
	if !ok {
		return ErrUnknownKind
	}
	if !force && c.fetched[kind] {
		c.loading = false
		return nil
	}

	c.issued[kind]++
	seq := c.issued[kind]
	c.loading = true

	resp, err := adapter.List(ctx)

	if c.tornDown {
		return ErrTornDown
	}
	c.loading = false
	if err != nil {
		c.notifyError("Load failed", loadFailureMessage(err))
		return err
	}
	if seq <= c.applied[kind] {
		// A newer response already landed for this kind.
		return nil
	}
	c.applied[kind] = seq

	list := resp.Data
	if list == nil {
		list = []Record{}
	}
	c.setData(kind, list)
	c.fetched[kind] = true
	return nil
}

// invalidate resets kind's fetched flag. Called immediately before every
// mutating network call so a failed mutation never leaves a stale "fetched"
// state behind.
func (c *Controller) invalidate(kind Kind) {
	c.fetched[kind] = false
}

func loadFailureMessage(err error) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Could not load data, please try again"
}
