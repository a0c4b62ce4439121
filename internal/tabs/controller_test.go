package tabs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeAdapter struct {
	listCalls  int
	listData   []Record
	listErr    error
	listQueue  [][]Record
	createResp Response
	createErr  error
	editResp   Response
	editErr    error
	deleteResp Response
	deleteErr  error
}

func (f *fakeAdapter) List(ctx context.Context) (ListResponse, error) {
	f.listCalls++
	if f.listErr != nil {
		return ListResponse{}, f.listErr
	}
	if len(f.listQueue) > 0 {
		next := f.listQueue[0]
		f.listQueue = f.listQueue[1:]
		return ListResponse{Data: next}, nil
	}
	return ListResponse{Data: f.listData}, nil
}

func (f *fakeAdapter) Create(ctx context.Context, draft Record) (Response, error) {
	return f.createResp, f.createErr
}

func (f *fakeAdapter) Edit(ctx context.Context, id any, draft Record) (Response, error) {
	return f.editResp, f.editErr
}

func (f *fakeAdapter) Delete(ctx context.Context, id any) (Response, error) {
	return f.deleteResp, f.deleteErr
}

type fakeStore struct{ values map[string]string }

func newFakeStore() *fakeStore { return &fakeStore{values: map[string]string{}} }

func (s *fakeStore) Get(key string) string { return s.values[key] }
func (s *fakeStore) Set(key, value string) { s.values[key] = value }

type fakeURL struct{ tab string }

func (u *fakeURL) Tab() string         { return u.tab }
func (u *fakeURL) SetTab(value string) { u.tab = value }

type fakeNotifier struct {
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(title, description string) {
	n.successes = append(n.successes, title+": "+description)
}

func (n *fakeNotifier) Error(title, description string) {
	n.errors = append(n.errors, title+": "+description)
}

type fakeDownloader struct {
	filenames []string
	payloads  [][]byte
}

func (d *fakeDownloader) Download(filename string, data []byte) error {
	d.filenames = append(d.filenames, filename)
	d.payloads = append(d.payloads, data)
	return nil
}

func newTestController(adapters map[Kind]Adapter, store *fakeStore, url *fakeURL, notify *fakeNotifier) *Controller {
	kinds := make([]Kind, 0, len(adapters))
	for _, k := range []Kind{"country", "zone", "city", "district"} {
		if _, ok := adapters[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return New(Config{
		Page:     "geography",
		Kinds:    kinds,
		Adapters: adapters,
		Store:    store,
		URL:      url,
		Notifier: notify,
	})
}

func TestMountPrefersURLTabAndSyncsStore(t *testing.T) {
	store := newFakeStore()
	store.values["geographyLastTab"] = "0"
	url := &fakeURL{tab: "2"}
	adapters := map[Kind]Adapter{
		"country":  &fakeAdapter{},
		"zone":     &fakeAdapter{},
		"city":     &fakeAdapter{},
		"district": &fakeAdapter{},
	}
	c := newTestController(adapters, store, url, &fakeNotifier{})

	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if c.ActiveIndex() != 2 {
		t.Fatalf("expected tab 2, got %d", c.ActiveIndex())
	}
	if store.values["geographyLastTab"] != "2" {
		t.Fatalf("store not synced, got %q", store.values["geographyLastTab"])
	}
}

func TestMountRestoresPersistedTabIntoURL(t *testing.T) {
	store := newFakeStore()
	store.values["geographyLastTab"] = "1"
	url := &fakeURL{}
	adapters := map[Kind]Adapter{
		"country": &fakeAdapter{},
		"zone":    &fakeAdapter{},
	}
	c := newTestController(adapters, store, url, &fakeNotifier{})

	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if c.ActiveIndex() != 1 {
		t.Fatalf("expected restored tab 1, got %d", c.ActiveIndex())
	}
	if url.tab != "1" {
		t.Fatalf("url not updated, got %q", url.tab)
	}
}

func TestMountMalformedTabParamFallsBack(t *testing.T) {
	store := newFakeStore()
	url := &fakeURL{tab: "banana"}
	adapters := map[Kind]Adapter{"country": &fakeAdapter{}}
	c := newTestController(adapters, store, url, &fakeNotifier{})

	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if c.ActiveIndex() != 0 {
		t.Fatalf("expected default tab 0, got %d", c.ActiveIndex())
	}
	if _, ok := store.values["geographyLastTab"]; ok {
		t.Fatal("defaulting to tab 0 must not write state")
	}
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	adapter := &fakeAdapter{listData: []Record{{"id": int64(1), "name": "Egypt"}}}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if adapter.listCalls != 1 {
		t.Fatalf("expected exactly one list call, got %d", adapter.listCalls)
	}
	if c.Loading() {
		t.Fatal("loading flag must be unset after a cached hit")
	}
}

func TestEnsureLoadedFailureKeepsPriorFlagAndNotifies(t *testing.T) {
	adapter := &fakeAdapter{listErr: errors.New("gateway timeout")}
	notify := &fakeNotifier{}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, notify)

	if err := c.EnsureLoaded(context.Background(), "country", false); err == nil {
		t.Fatal("expected error")
	}
	if c.Fetched("country") {
		t.Fatal("flag must stay false after a failed fetch")
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "gateway timeout") {
		t.Fatalf("expected failure notification with message, got %v", notify.errors)
	}

	// Retry succeeds and sets the flag.
	adapter.listErr = nil
	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !c.Fetched("country") {
		t.Fatal("flag must be set after a successful retry")
	}
}

func TestEnsureLoadedNilDataBecomesEmptyList(t *testing.T) {
	adapter := &fakeAdapter{}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.List("country") == nil {
		t.Fatal("missing data field must become an empty list, not nil")
	}
}

func TestDeleteInvalidatesFlagAndForcesRefetch(t *testing.T) {
	adapter := &fakeAdapter{
		listData:   []Record{{"id": int64(1), "name": "Egypt"}},
		deleteResp: Response{Status: true},
	}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.DeleteRecord(context.Background(), "country", int64(1)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(c.List("country")) != 0 {
		t.Fatalf("expected empty list, got %d records", len(c.List("country")))
	}
	if c.Fetched("country") {
		t.Fatal("mutation must reset the fetched flag")
	}

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Fatalf("expected a second list call after invalidation, got %d", adapter.listCalls)
	}
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	adapter := &fakeAdapter{
		listData:   []Record{{"id": int64(1)}, {"id": int64(2)}},
		deleteResp: Response{Status: false, Message: "row is referenced"},
	}
	notify := &fakeNotifier{}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, notify)

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := c.DeleteRecord(context.Background(), "country", int64(1))
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if !IsRejected(err) {
		t.Fatalf("status:false must surface as a rejection, got %v", err)
	}
	if len(c.List("country")) != 2 {
		t.Fatalf("list must be unchanged after failed delete, got %d records", len(c.List("country")))
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "row is referenced") {
		t.Fatalf("expected error notification with server message, got %v", notify.errors)
	}
}

func TestExportGuardOnEmptyList(t *testing.T) {
	adapter := &fakeAdapter{}
	notify := &fakeNotifier{}
	exporter := &fakeExporter{}
	c := New(Config{
		Page:      "geography",
		Kinds:     []Kind{"country"},
		Adapters:  map[Kind]Adapter{"country": adapter},
		Exporters: map[Kind]Exporter{"country": exporter},
		Store:     newFakeStore(),
		URL:       &fakeURL{},
		Notifier:  notify,
	})

	if err := c.ExportExcel(context.Background(), "country"); err == nil {
		t.Fatal("expected empty-dataset error")
	}
	if exporter.excelCalls != 0 {
		t.Fatal("export on empty list must not issue a network call")
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "no data") {
		t.Fatalf("expected no-data notification, got %v", notify.errors)
	}
}

func TestDrawerAddSaveAndNewTransitions(t *testing.T) {
	adapter := &fakeAdapter{
		createResp: Response{Status: true, Data: Record{"id": int64(7), "name": "Cairo", "active": true}},
	}
	c := newTestController(map[Kind]Adapter{"city": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.Add("city"); err != nil {
		t.Fatalf("add: %v", err)
	}
	d := c.Drawer()
	if !d.IsOpen || d.Kind != "city" || d.Mode != ModeCreate {
		t.Fatalf("unexpected session after add: %+v", d)
	}
	if active, ok := d.Draft["active"].(bool); !ok || !active {
		t.Fatalf("create draft must default to active, got %v", d.Draft)
	}

	if err := c.SaveAndNew(context.Background()); err != nil {
		t.Fatalf("save and new: %v", err)
	}
	d = c.Drawer()
	if !d.IsOpen || d.Kind != "city" || d.Mode != ModeCreate {
		t.Fatalf("save-and-new must reopen a create session, got %+v", d)
	}
	if _, hasID := d.Draft["id"]; hasID {
		t.Fatal("draft must be reset after save-and-new")
	}
	list := c.List("city")
	if len(list) != 1 || !sameID(list[0].ID(), int64(7)) {
		t.Fatalf("city list must gain the created record, got %v", list)
	}
}

func TestDrawerSaveAndNewForcesCreateAfterEdit(t *testing.T) {
	adapter := &fakeAdapter{
		editResp: Response{Status: true, Data: Record{"id": int64(3), "name": "Giza"}},
	}
	c := newTestController(map[Kind]Adapter{"city": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.EditRecord("city", Record{"id": int64(3), "name": "Gizah"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := c.SaveAndNew(context.Background()); err != nil {
		t.Fatalf("save and new: %v", err)
	}
	if d := c.Drawer(); d.Mode != ModeCreate {
		t.Fatalf("mode must be forced to create, got %s", d.Mode)
	}
}

func TestDrawerSaveFailureKeepsDraft(t *testing.T) {
	adapter := &fakeAdapter{createResp: Response{Status: false, Message: "code already exists"}}
	notify := &fakeNotifier{}
	c := newTestController(map[Kind]Adapter{"city": adapter}, newFakeStore(), &fakeURL{}, notify)

	if err := c.Add("city"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.SetDraftField("name", "Cairo"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	if err := c.SaveAndClose(context.Background()); err == nil {
		t.Fatal("expected save failure")
	}
	d := c.Drawer()
	if !d.IsOpen {
		t.Fatal("drawer must stay open after failed save")
	}
	if d.Draft["name"] != "Cairo" {
		t.Fatalf("draft must stay intact, got %v", d.Draft)
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "code already exists") {
		t.Fatalf("expected error notification, got %v", notify.errors)
	}
}

func TestSaveReentrancyGuard(t *testing.T) {
	adapter := &blockingAdapter{}
	c := newTestController(map[Kind]Adapter{"city": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})
	if err := c.Add("city"); err != nil {
		t.Fatalf("add: %v", err)
	}

	adapter.onCreate = func() {
		// Re-entrant save from inside the in-flight request must be
		// rejected without firing a second network call.
		if err := c.Save(context.Background()); !errors.Is(err, ErrSaveInFlight) {
			t.Errorf("expected ErrSaveInFlight, got %v", err)
		}
	}
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if adapter.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", adapter.createCalls)
	}
}

// overlappingAdapter triggers a nested load from inside List, so the outer
// (older) response resolves after the nested (newer) one has been applied.
type overlappingAdapter struct {
	c         *Controller
	listCalls int
	nested    bool
}

func (o *overlappingAdapter) List(ctx context.Context) (ListResponse, error) {
	o.listCalls++
	if !o.nested {
		o.nested = true
		if err := o.c.EnsureLoaded(ctx, "country", true); err != nil {
			return ListResponse{}, err
		}
		return ListResponse{Data: []Record{{"id": int64(1), "name": "stale"}}}, nil
	}
	return ListResponse{Data: []Record{{"id": int64(2), "name": "newer"}}}, nil
}

func (o *overlappingAdapter) Create(ctx context.Context, draft Record) (Response, error) {
	return Response{}, nil
}

func (o *overlappingAdapter) Edit(ctx context.Context, id any, draft Record) (Response, error) {
	return Response{}, nil
}

func (o *overlappingAdapter) Delete(ctx context.Context, id any) (Response, error) {
	return Response{}, nil
}

func TestStaleListResponseIsDiscarded(t *testing.T) {
	adapter := &overlappingAdapter{}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})
	adapter.c = c

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Fatalf("expected two overlapping list calls, got %d", adapter.listCalls)
	}
	list := c.List("country")
	if len(list) != 1 || list[0]["name"] != "newer" {
		t.Fatalf("the later response must win, got %v", list)
	}
	if !c.Fetched("country") {
		t.Fatal("fetched flag must be set")
	}
}

func TestEndToEndCountriesScenario(t *testing.T) {
	adapter := &fakeAdapter{
		listQueue: [][]Record{
			{{"id": int64(1), "name": "Egypt"}},
			{},
		},
		deleteResp: Response{Status: true},
	}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if adapter.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", adapter.listCalls)
	}
	if list := c.List("country"); len(list) != 1 || list[0]["name"] != "Egypt" {
		t.Fatalf("unexpected list %v", list)
	}
	if !c.Fetched("country") {
		t.Fatal("fetched flag must be set")
	}

	if err := c.DeleteRecord(context.Background(), "country", int64(1)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(c.List("country")) != 0 {
		t.Fatal("list must be empty after delete")
	}
	if c.Fetched("country") {
		t.Fatal("fetched flag must be invalidated by the delete")
	}

	if err := c.EnsureLoaded(context.Background(), "country", false); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Fatalf("expected a second list call, got %d", adapter.listCalls)
	}
}

func TestDispatchRoutesCommands(t *testing.T) {
	adapter := &fakeAdapter{listData: []Record{{"id": int64(1)}}}
	c := newTestController(map[Kind]Adapter{"country": adapter}, newFakeStore(), &fakeURL{}, &fakeNotifier{})

	if err := c.Dispatch(context.Background(), CmdRefresh, "country", nil); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := c.Dispatch(context.Background(), CmdAdd, "country", nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !c.Drawer().IsOpen {
		t.Fatal("dispatching add must open the drawer")
	}
	if err := c.Dispatch(context.Background(), CmdEdit, "country", "not a record"); err == nil {
		t.Fatal("edit with a bad payload must fail")
	}
}

type fakeExporter struct {
	excelCalls  int
	pdfCalls    int
	importResp  Response
	importErr   error
	importCalls int
}

func (f *fakeExporter) ExportExcel(ctx context.Context) ([]byte, error) {
	f.excelCalls++
	return []byte("xlsx"), nil
}

func (f *fakeExporter) ExportPDF(ctx context.Context) ([]byte, error) {
	f.pdfCalls++
	return []byte("pdf"), nil
}

func (f *fakeExporter) ImportExcel(ctx context.Context, file io.Reader) (Response, error) {
	f.importCalls++
	return f.importResp, f.importErr
}

type blockingAdapter struct {
	createCalls int
	onCreate    func()
}

func (b *blockingAdapter) List(ctx context.Context) (ListResponse, error) {
	return ListResponse{}, nil
}

func (b *blockingAdapter) Create(ctx context.Context, draft Record) (Response, error) {
	b.createCalls++
	if b.onCreate != nil {
		b.onCreate()
	}
	return Response{Status: true, Data: Record{"id": int64(1)}}, nil
}

func (b *blockingAdapter) Edit(ctx context.Context, id any, draft Record) (Response, error) {
	return Response{Status: true}, nil
}

func (b *blockingAdapter) Delete(ctx context.Context, id any) (Response, error) {
	return Response{Status: true}, nil
}
