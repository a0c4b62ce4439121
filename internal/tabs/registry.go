package tabs

import (
	"context"
	"fmt"
)

// rejectedError marks a business rejection: the transport succeeded but the
// response carried a falsy status.
type rejectedError struct{ msg string }

func (e rejectedError) Error() string { return e.msg }

func errRejected(msg string) error { return rejectedError{msg: msg} }

// IsRejected reports whether err is a business rejection rather than a
// transport failure.
func IsRejected(err error) bool {
	_, ok := err.(rejectedError)
	return ok
}

// DeleteRecord removes the record with the given id through kind's adapter.
// On success the record is dropped from the in-memory list and the cache flag
// stays invalidated; on failure the list is left untouched.
func (c *Controller) DeleteRecord(ctx context.Context, kind Kind, id any) error {
	if c.tornDown {
		return ErrTornDown
	}
	adapter, ok := c.adapters[kind]
	if !ok {
		return ErrUnknownKind
	}

	c.invalidate(kind)

	resp, err := adapter.Delete(ctx, id)
	if c.tornDown {
		return ErrTornDown
	}
	if err != nil || !resp.Status {
		msg := failureMessage(resp, err, "Could not delete record")
		c.notifyError("Delete failed", msg)
		if err == nil {
			err = errRejected(msg)
		}
		return err
	}

	list := c.lists[kind]
	remaining := make([]Record, 0, len(list))
	for _, rec := range list {
		if !sameID(rec.ID(), id) {
			remaining = append(remaining, rec)
		}
	}
	c.setData(kind, remaining)
	c.notifySuccess("Deleted", "Record removed")
	return nil
}

// sameID compares identifiers across representations; JSON decoding turns
// numeric ids into float64 while adapters may hand back int64 or string.
func sameID(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
