package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/tabs"
)

// tableExporter serves a kind's bulk actions from its export table builder.
// Kinds without an importer reject ImportExcel.
type tableExporter struct {
	table    func(ctx context.Context) (exports.Table, error)
	pdf      exports.PDFRenderer
	importFn func(ctx context.Context, rows [][]string) (int, error)
}

func (e tableExporter) ExportExcel(ctx context.Context) ([]byte, error) {
	table, err := e.table(ctx)
	if err != nil {
		return nil, err
	}
	return exports.BuildExcel(table)
}

func (e tableExporter) ExportPDF(ctx context.Context) ([]byte, error) {
	table, err := e.table(ctx)
	if err != nil {
		return nil, err
	}
	if e.pdf == nil {
		return nil, fmt.Errorf("pages: pdf renderer not configured")
	}
	return exports.BuildPDF(ctx, e.pdf, table)
}

func (e tableExporter) ImportExcel(ctx context.Context, file io.Reader) (tabs.Response, error) {
	if e.importFn == nil {
		return tabs.Response{Status: false, Message: "Import is not supported here"}, nil
	}
	_, rows, err := exports.ParseExcel(file)
	if err != nil {
		return tabs.Response{}, err
	}
	imported, err := e.importFn(ctx, rows)
	if err != nil {
		return tabs.Response{Status: false, Message: err.Error()}, nil
	}
	return tabs.Response{Status: true, Message: fmt.Sprintf("Imported %d rows", imported)}, nil
}
