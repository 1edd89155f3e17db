package library

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shelfhq/shelf/internal/booktrack"
	"github.com/shelfhq/shelf/internal/storage"
)

// Library holds the authoritative in-memory book list for the active
// session and applies the effect of each confirmed server mutation to
// it. Failed calls never touch the list. There is no fencing between
// in-flight mutations: when two races for the same id overlap, the one
// whose response lands last wins.
type Library struct {
	mu    sync.Mutex
	api   booktrack.API
	cache storage.Store
	books []booktrack.Book
}

// New builds a Library over the API client. cache may be nil; when set,
// successful refreshes and mutations persist a books cache entry for
// the next launch.
func New(api booktrack.API, cache storage.Store) *Library {
	return &Library{api: api, cache: cache}
}

// Books returns a copy of the current list in server order.
func (l *Library) Books() []booktrack.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneBooks(l.books)
}

// Len reports the current list length.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.books)
}

// Refresh replaces the whole list with the server's, preserving its
// order. On failure the previous list is left untouched.
func (l *Library) Refresh(ctx context.Context, query booktrack.ListQuery) error {
	books, err := l.api.ListBooks(ctx, query)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.books = books
	l.persistCache()
	return nil
}

// Create sends the draft and appends the stored record to the tail of
// the list.
func (l *Library) Create(ctx context.Context, draft booktrack.BookDraft) (booktrack.Book, error) {
	book, err := l.api.CreateBook(ctx, draft)
	if err != nil {
		return booktrack.Book{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.books = append(l.books, book)
	l.persistCache()
	return book, nil
}

// Update rejects negative page counts locally, then sends the draft and
// replaces the matching entry in place. When the id is not in the list
// the stored record is still returned but nothing is inserted.
func (l *Library) Update(ctx context.Context, id string, draft booktrack.BookDraft) (booktrack.Book, error) {
	if draft.PageCount < 0 {
		return booktrack.Book{}, booktrack.ValidationError(map[string]string{
			"totalPages": "please enter a valid number of pages",
		})
	}
	book, err := l.api.UpdateBook(ctx, id, draft)
	if err != nil {
		return booktrack.Book{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.books {
		if l.books[i].ID == id {
			l.books[i] = book
			l.persistCache()
			break
		}
	}
	return book, nil
}

// Delete removes the record on the server, then drops the first entry
// with that id from the list. Deleting an id the list never held leaves
// it unchanged.
func (l *Library) Delete(ctx context.Context, id string) error {
	if err := l.api.DeleteBook(ctx, id); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.books {
		if l.books[i].ID == id {
			l.books = append(l.books[:i], l.books[i+1:]...)
			l.persistCache()
			break
		}
	}
	return nil
}

// Get fetches a single record to seed an edit form. The list is not
// consulted or mutated.
func (l *Library) Get(ctx context.Context, id string) (booktrack.Book, error) {
	return l.api.GetBook(ctx, id)
}

// persistCache writes the current list under the books cache key. The
// cache is advisory; a failed write must not fail the mutation that
// triggered it. Callers hold l.mu.
func (l *Library) persistCache() {
	if l.cache == nil {
		return
	}
	encoded, err := json.Marshal(l.books)
	if err != nil {
		return
	}
	_ = l.cache.Set(storage.KeyBooksCache, encoded)
}

func cloneBooks(books []booktrack.Book) []booktrack.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]booktrack.Book, len(books))
	copy(dup, books)
	return dup
}
