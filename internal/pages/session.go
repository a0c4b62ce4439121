package pages

import (
	"sync"

	"github.com/meridian-erp/meridian/internal/tabs"
)

// Notification is one queued toast for the client.
type Notification struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// notifier collects notifications raised during one request so they can be
// returned in the response body.
type notifier struct {
	queued []Notification
}

func (n *notifier) Success(title, description string) {
	n.queued = append(n.queued, Notification{Kind: "success", Title: title, Description: description})
}

func (n *notifier) Error(title, description string) {
	n.queued = append(n.queued, Notification{Kind: "error", Title: title, Description: description})
}

func (n *notifier) drain() []Notification {
	out := n.queued
	n.queued = nil
	return out
}

// urlState mirrors the client's "tab" query parameter for a mounted page.
type urlState struct {
	tab string
}

func (u *urlState) Tab() string         { return u.tab }
func (u *urlState) SetTab(value string) { u.tab = value }

// download captures the last exported attachment so the HTTP layer can
// stream it back.
type download struct {
	filename string
	data     []byte
}

func (d *download) Download(filename string, data []byte) error {
	d.filename = filename
	d.data = append([]byte(nil), data...)
	return nil
}

func (d *download) take() (string, []byte, bool) {
	if d.filename == "" {
		return "", nil, false
	}
	filename, data := d.filename, d.data
	d.filename, d.data = "", nil
	return filename, data, true
}

// session is the single owner of one user's controller for one page. The
// mutex serializes requests so controller methods always run from one
// goroutine at a time.
type session struct {
	mu       sync.Mutex
	ctrl     *tabs.Controller
	mounted  bool
	notes    *notifier
	url      *urlState
	download *download
}
