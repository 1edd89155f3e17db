package library

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shelfhq/shelf/internal/booktrack"
	"github.com/shelfhq/shelf/internal/storage"
)

// fakeAPI implements booktrack.API with per-call hooks.
type fakeAPI struct {
	listFn   func(booktrack.ListQuery) ([]booktrack.Book, error)
	getFn    func(string) (booktrack.Book, error)
	createFn func(booktrack.BookDraft) (booktrack.Book, error)
	updateFn func(string, booktrack.BookDraft) (booktrack.Book, error)
	deleteFn func(string) error
}

func (f *fakeAPI) ListBooks(_ context.Context, q booktrack.ListQuery) ([]booktrack.Book, error) {
	return f.listFn(q)
}

func (f *fakeAPI) GetBook(_ context.Context, id string) (booktrack.Book, error) {
	return f.getFn(id)
}

func (f *fakeAPI) CreateBook(_ context.Context, d booktrack.BookDraft) (booktrack.Book, error) {
	return f.createFn(d)
}

func (f *fakeAPI) UpdateBook(_ context.Context, id string, d booktrack.BookDraft) (booktrack.Book, error) {
	return f.updateFn(id, d)
}

func (f *fakeAPI) DeleteBook(_ context.Context, id string) error {
	return f.deleteFn(id)
}

func seeded(t *testing.T, api *fakeAPI, books ...booktrack.Book) *Library {
	t.Helper()
	api.listFn = func(booktrack.ListQuery) ([]booktrack.Book, error) { return books, nil }
	lib := New(api, nil)
	if err := lib.Refresh(context.Background(), booktrack.ListQuery{}); err != nil {
		t.Fatalf("seed Refresh returned error: %v", err)
	}
	return lib
}

func TestRefresh_ReplacesListPreservingOrder(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api,
		booktrack.Book{ID: "2", Title: "second"},
		booktrack.Book{ID: "1", Title: "first"},
	)

	books := lib.Books()
	if len(books) != 2 || books[0].ID != "2" || books[1].ID != "1" {
		t.Fatalf("Books = %#v, want server order preserved", books)
	}

	// Returned slice must be independent of the stored one.
	books[0].Title = "mutated"
	if lib.Books()[0].Title != "second" {
		t.Fatalf("Books returned shared slice")
	}
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1"})

	api.listFn = func(booktrack.ListQuery) ([]booktrack.Book, error) {
		return nil, &booktrack.Error{Kind: booktrack.KindNetwork, Message: "Network error"}
	}
	err := lib.Refresh(context.Background(), booktrack.ListQuery{})
	normalized, ok := booktrack.AsError(err)
	if !ok || normalized.Kind != booktrack.KindNetwork {
		t.Fatalf("Refresh error = %v, want network kind", err)
	}
	if lib.Len() != 1 {
		t.Fatalf("list length = %d after failed refresh, want 1", lib.Len())
	}
}

func TestCreate_AppendsNormalizedResponse(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1"})

	stored := booktrack.Book{ID: "9", Title: "Ubik", PageCount: 200}
	api.createFn = func(d booktrack.BookDraft) (booktrack.Book, error) { return stored, nil }

	book, err := lib.Create(context.Background(), booktrack.BookDraft{Title: "Ubik", PageCount: 200})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if book != stored {
		t.Fatalf("Create = %#v, want %#v", book, stored)
	}
	books := lib.Books()
	if len(books) != 2 || books[1] != stored {
		t.Fatalf("Books = %#v, want stored record appended at tail", books)
	}
}

func TestCreate_FailureLeavesListUnchanged(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1"})

	api.createFn = func(booktrack.BookDraft) (booktrack.Book, error) {
		return booktrack.Book{}, &booktrack.Error{Kind: booktrack.KindServerMessage, Message: "title exists"}
	}
	if _, err := lib.Create(context.Background(), booktrack.BookDraft{}); err == nil {
		t.Fatalf("Create returned nil error, want failure")
	}
	if lib.Len() != 1 {
		t.Fatalf("list length = %d, want 1", lib.Len())
	}
}

func TestUpdate_NegativePageCountFailsWithoutRoundTrip(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1", PageCount: 10})

	api.updateFn = func(string, booktrack.BookDraft) (booktrack.Book, error) {
		t.Fatalf("server called despite local validation failure")
		return booktrack.Book{}, nil
	}

	_, err := lib.Update(context.Background(), "1", booktrack.BookDraft{PageCount: -1})
	normalized, ok := booktrack.AsError(err)
	if !ok || normalized.Kind != booktrack.KindValidation {
		t.Fatalf("Update error = %v, want validation kind", err)
	}
	if lib.Books()[0].PageCount != 10 {
		t.Fatalf("list changed on rejected update: %#v", lib.Books())
	}
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api,
		booktrack.Book{ID: "1", Title: "first"},
		booktrack.Book{ID: "2", Title: "second"},
		booktrack.Book{ID: "3", Title: "third"},
	)

	stored := booktrack.Book{ID: "2", Title: "second, revised", PageCount: 99}
	api.updateFn = func(id string, d booktrack.BookDraft) (booktrack.Book, error) { return stored, nil }

	book, err := lib.Update(context.Background(), "2", booktrack.BookDraft{Title: "second, revised", PageCount: 99})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if book != stored {
		t.Fatalf("Update = %#v, want %#v", book, stored)
	}
	books := lib.Books()
	if books[1] != stored {
		t.Fatalf("entry not replaced in place: %#v", books)
	}
	if books[0].ID != "1" || books[2].ID != "3" {
		t.Fatalf("neighbor entries disturbed: %#v", books)
	}
}

func TestUpdate_MissingIDReturnsRecordWithoutInsert(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1"})

	stored := booktrack.Book{ID: "404", Title: "ghost"}
	api.updateFn = func(string, booktrack.BookDraft) (booktrack.Book, error) { return stored, nil }

	book, err := lib.Update(context.Background(), "404", booktrack.BookDraft{Title: "ghost"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if book != stored {
		t.Fatalf("Update = %#v, want server record returned", book)
	}
	if lib.Len() != 1 || lib.Books()[0].ID != "1" {
		t.Fatalf("list changed on miss: %#v", lib.Books())
	}
}

func TestDelete_RemovesFirstMatchOnly(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api,
		booktrack.Book{ID: "1"},
		booktrack.Book{ID: "7"},
		booktrack.Book{ID: "3"},
	)

	api.deleteFn = func(id string) error { return nil }
	if err := lib.Delete(context.Background(), "7"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	books := lib.Books()
	if len(books) != 2 || books[0].ID != "1" || books[1].ID != "3" {
		t.Fatalf("Books = %#v, want 7 removed", books)
	}

	// Deleting an id that is not present must not remove anything else.
	if err := lib.Delete(context.Background(), "7"); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if lib.Len() != 2 {
		t.Fatalf("list length = %d, want 2", lib.Len())
	}
}

func TestDelete_TimeoutKeepsRecord(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "7"})

	api.deleteFn = func(string) error {
		return &booktrack.Error{Kind: booktrack.KindNetwork, Message: "Network error"}
	}
	err := lib.Delete(context.Background(), "7")
	normalized, ok := booktrack.AsError(err)
	if !ok || normalized.Kind != booktrack.KindNetwork {
		t.Fatalf("Delete error = %v, want network kind", err)
	}
	if lib.Len() != 1 || lib.Books()[0].ID != "7" {
		t.Fatalf("record 7 missing after failed delete: %#v", lib.Books())
	}
}

func TestGet_DoesNotTouchList(t *testing.T) {
	api := &fakeAPI{}
	lib := seeded(t, api, booktrack.Book{ID: "1"})

	api.getFn = func(id string) (booktrack.Book, error) {
		return booktrack.Book{ID: id, Title: "fetched"}, nil
	}
	book, err := lib.Get(context.Background(), "55")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if book.ID != "55" {
		t.Fatalf("Get = %#v, want id 55", book)
	}
	if lib.Len() != 1 || lib.Books()[0].ID != "1" {
		t.Fatalf("list changed by Get: %#v", lib.Books())
	}
}

func TestRefresh_WritesBooksCache(t *testing.T) {
	backend, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	api := &fakeAPI{
		listFn: func(booktrack.ListQuery) ([]booktrack.Book, error) {
			return []booktrack.Book{{ID: "1", Title: "Dune"}}, nil
		},
	}
	lib := New(api, backend)
	if err := lib.Refresh(context.Background(), booktrack.ListQuery{}); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	cached, err := backend.Get(storage.KeyBooksCache)
	if err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
	var books []booktrack.Book
	if err := json.Unmarshal(cached, &books); err != nil {
		t.Fatalf("cache entry not json: %v", err)
	}
	if len(books) != 1 || books[0].ID != "1" {
		t.Fatalf("cache = %#v, want refreshed list", books)
	}
}
