package tabs

import (
	"context"
	"strings"
	"testing"
)

func newBridgeController(adapter *fakeAdapter, exporter *fakeExporter, notify *fakeNotifier, download *fakeDownloader) *Controller {
	return New(Config{
		Page:       "geography",
		Kinds:      []Kind{"country", "city"},
		Adapters:   map[Kind]Adapter{"country": adapter, "city": adapter},
		Exporters:  map[Kind]Exporter{"country": exporter, "city": exporter},
		Store:      newFakeStore(),
		URL:        &fakeURL{},
		Notifier:   notify,
		Downloader: download,
	})
}

func TestExportExcelDownloadsPluralizedFilename(t *testing.T) {
	adapter := &fakeAdapter{listData: []Record{{"id": int64(1)}}}
	exporter := &fakeExporter{}
	download := &fakeDownloader{}
	c := newBridgeController(adapter, exporter, &fakeNotifier{}, download)

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.ExportExcel(context.Background(), "country"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if exporter.excelCalls != 1 {
		t.Fatalf("expected one export call, got %d", exporter.excelCalls)
	}
	if len(download.filenames) != 1 || download.filenames[0] != "countries.xlsx" {
		t.Fatalf("unexpected filename %v", download.filenames)
	}
}

func TestExportPDFFilename(t *testing.T) {
	adapter := &fakeAdapter{listData: []Record{{"id": int64(1)}}}
	exporter := &fakeExporter{}
	download := &fakeDownloader{}
	c := newBridgeController(adapter, exporter, &fakeNotifier{}, download)

	if err := c.EnsureLoaded(context.Background(), "city", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.ExportPDF(context.Background(), "city"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(download.filenames) != 1 || download.filenames[0] != "cities.pdf" {
		t.Fatalf("unexpected filename %v", download.filenames)
	}
}

func TestImportExcelForcesRefetch(t *testing.T) {
	adapter := &fakeAdapter{
		listQueue: [][]Record{
			{{"id": int64(1)}},
			{{"id": int64(1)}, {"id": int64(2)}},
		},
	}
	exporter := &fakeExporter{importResp: Response{Status: true}}
	notify := &fakeNotifier{}
	c := newBridgeController(adapter, exporter, notify, &fakeDownloader{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.ImportExcel(context.Background(), "country", strings.NewReader("file")); err != nil {
		t.Fatalf("import: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Fatalf("import must force a refetch, got %d list calls", adapter.listCalls)
	}
	if len(c.List("country")) != 2 {
		t.Fatalf("imported rows must appear, got %d", len(c.List("country")))
	}
	if len(notify.successes) == 0 {
		t.Fatal("expected success notification")
	}
	if !c.Fetched("country") {
		t.Fatal("flag must be set after the forced refetch")
	}
}

func TestImportExcelFailureMakesNoStateChange(t *testing.T) {
	adapter := &fakeAdapter{listData: []Record{{"id": int64(1)}}}
	exporter := &fakeExporter{importResp: Response{Status: false, Message: "bad header row"}}
	notify := &fakeNotifier{}
	c := newBridgeController(adapter, exporter, notify, &fakeDownloader{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.ImportExcel(context.Background(), "country", strings.NewReader("file")); err == nil {
		t.Fatal("expected import failure")
	}
	if adapter.listCalls != 1 {
		t.Fatalf("failed import must not refetch, got %d list calls", adapter.listCalls)
	}
	if len(c.List("country")) != 1 {
		t.Fatal("list must be unchanged")
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "bad header row") {
		t.Fatalf("expected error notification, got %v", notify.errors)
	}
}

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"country":     "countries",
		"city":        "cities",
		"zone":        "zones",
		"district":    "districts",
		"customer":    "customers",
		"paymentterm": "paymentterms",
		"branch":      "branches",
		"tax":         "taxes",
		"day":         "days",
	}
	for in, want := range cases {
		if got := pluralize(in); got != want {
			t.Fatalf("pluralize(%q) = %q, want %q", in, got, want)
		}
	}
}
