package tabs

import (
	"context"
	"io"
	"strings"
)

// ExportExcel downloads kind's list as an .xlsx file. The empty-list guard
// runs before any network call so an empty tab never costs a round trip.
func (c *Controller) ExportExcel(ctx context.Context, kind Kind) error {
	return c.export(ctx, kind, "xlsx", func(e Exporter) ([]byte, error) {
		return e.ExportExcel(ctx)
	})
}

// ExportPDF downloads kind's list as a .pdf file.
func (c *Controller) ExportPDF(ctx context.Context, kind Kind) error {
	return c.export(ctx, kind, "pdf", func(e Exporter) ([]byte, error) {
		return e.ExportPDF(ctx)
	})
}

func (c *Controller) export(ctx context.Context, kind Kind, ext string, fetch func(Exporter) ([]byte, error)) error {
	if c.tornDown {
		return ErrTornDown
	}
	exporter, ok := c.exporters[kind]
	if !ok {
		return ErrNoExporter
	}
	if len(c.lists[kind]) == 0 {
		c.notifyError("Nothing to export", "There is no data to export")
		return errEmptyDataset
	}
	payload, err := fetch(exporter)
	if err != nil {
		c.notifyError("Export failed", loadFailureMessage(err))
		return err
	}
	if c.download == nil {
		return nil
	}
	if err := c.download.Download(pluralize(string(kind))+"."+ext, payload); err != nil {
		c.notifyError("Export failed", loadFailureMessage(err))
		return err
	}
	return nil
}

// ImportExcel uploads the file to kind's import endpoint. A successful import
// force-refetches the list so imported rows appear immediately.
func (c *Controller) ImportExcel(ctx context.Context, kind Kind, file io.Reader) error {
	if c.tornDown {
		return ErrTornDown
	}
	exporter, ok := c.exporters[kind]
	if !ok {
		return ErrNoExporter
	}

	c.invalidate(kind)

	resp, err := exporter.ImportExcel(ctx, file)
	if c.tornDown {
		return ErrTornDown
	}
	if err != nil || !resp.Status {
		msg := failureMessage(resp, err, "Could not import file")
		c.notifyError("Import failed", msg)
		if err == nil {
			err = errRejected(msg)
		}
		return err
	}

	c.notifySuccess("Imported", "Rows imported successfully")
	return c.EnsureLoaded(ctx, kind, true)
}

// pluralize derives the download filename stem from the kind tag.
func pluralize(word string) string {
	switch {
	case word == "":
		return word
	case strings.HasSuffix(word, "y") && !strings.HasSuffix(word, "ay") &&
		!strings.HasSuffix(word, "ey") && !strings.HasSuffix(word, "oy") &&
		!strings.HasSuffix(word, "uy"):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}
