package items

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/testutil"
)

type stubRepo struct {
	created []ItemInput
}

func (s *stubRepo) List(context.Context, shared.ListFilters) ([]Item, int, error) {
	return nil, 0, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (Item, error) {
	if id <= 0 || int(id) > len(s.created) {
		return Item{}, shared.ErrNotFound
	}
	in := s.created[id-1]
	return Item{ID: id, Code: in.Code, Name: in.Name}, nil
}

func (s *stubRepo) Create(_ context.Context, in ItemInput) (Item, error) {
	s.created = append(s.created, in)
	return Item{ID: int64(len(s.created)), Code: in.Code, Name: in.Name}, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in ItemInput) (Item, error) {
	return Item{ID: id, Code: in.Code, Name: in.Name}, nil
}

func (s *stubRepo) Delete(context.Context, int64) error { return nil }

type fakeQueue struct {
	enqueued int
}

func (f *fakeQueue) EnqueueItemImport(_ context.Context, _ int64, rows [][]string) error {
	f.enqueued = len(rows)
	return nil
}

func TestImportRowsParsesColumns(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	rows := [][]string{
		{"ITM-1", "Bolt", "3", "6221001", "pc", "1.50", "2.75"},
		{"ITM-2", "Nut", "3", "", "pc"},
	}
	n, err := svc.ImportRows(context.Background(), rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 || len(repo.created) != 2 {
		t.Fatalf("imported %d rows", n)
	}
	if repo.created[0].Cost != 1.5 || repo.created[0].Price != 2.75 {
		t.Fatalf("prices not parsed: %+v", repo.created[0])
	}
	if !repo.created[1].Active {
		t.Fatalf("imported rows default to active")
	}
}

func TestImportRowsRejectsBadSection(t *testing.T) {
	svc := NewService(&stubRepo{})
	_, err := svc.ImportRows(context.Background(), [][]string{{"ITM-1", "Bolt", "abc", "", "pc"}})
	if err == nil {
		t.Fatal("expected error for non-numeric section")
	}
}

func importRequest(t *testing.T, rowCount int) *http.Request {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]string{"Code", "Name", "SectionID", "Barcode", "Unit"})
	for i := 0; i < rowCount; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &[]string{"ITM", "Bolt", "3", "", "pc"})
	}
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, _ := form.CreateFormFile("file", "items.xlsx")
	_, _ = part.Write(workbook.Bytes())
	_ = form.Close()

	req := httptest.NewRequest(http.MethodPost, "/items/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestImportSmallWorkbookRunsInline(t *testing.T) {
	repo := &stubRepo{}
	queue := &fakeQueue{}
	handler := NewHandler(testutil.Logger(), NewService(repo), nil, queue)
	r := chi.NewRouter()
	r.Route("/items", handler.Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, importRequest(t, 3))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(repo.created) != 3 {
		t.Fatalf("created %d rows inline", len(repo.created))
	}
	if queue.enqueued != 0 {
		t.Fatalf("small import should not hit the queue")
	}
}

func TestImportLargeWorkbookGoesToQueue(t *testing.T) {
	repo := &stubRepo{}
	queue := &fakeQueue{}
	handler := NewHandler(testutil.Logger(), NewService(repo), nil, queue)
	r := chi.NewRouter()
	r.Route("/items", handler.Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, importRequest(t, asyncImportThreshold+1))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if queue.enqueued != asyncImportThreshold+1 {
		t.Fatalf("enqueued %d rows", queue.enqueued)
	}
	if len(repo.created) != 0 {
		t.Fatalf("large import should not run inline")
	}
}
