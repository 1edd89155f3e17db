package booktrack

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Book is the canonical record shape used everywhere above the wire
// boundary. The JSON tags are the canonical key spellings, which makes
// normalization of an already-canonical record a no-op.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PageCount   int    `json:"totalPages"`
	OwnerID     string `json:"ownerId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// BookDraft is the outbound shape for creates and updates. It omits the
// server-managed fields (id, owner, timestamps).
type BookDraft struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PageCount   int    `json:"totalPages"`
}

// Profile is the account shape behind /profile.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Key alias tables. The service has shipped records under every one of
// these spellings; each accepted variant is enumerated here once and
// resolved by first present key.
var (
	idKeys        = []string{"id", "_id"}
	pageCountKeys = []string{"totalPages", "total_pages"}
	ownerKeys     = []string{"ownerId", "userId"}
)

// now is swapped out in tests that pin timestamp substitution.
var now = time.Now

// NormalizeBook converts a raw record payload into the canonical Book.
// Page counts arrive as numbers or numeric strings and are coerced to a
// non-negative int (invalid or absent resolves to 0). Missing
// timestamps are substituted with the current time so no canonical
// record ever lacks them. Normalizing a canonical record yields the
// same record.
func NormalizeBook(raw json.RawMessage) (Book, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Book{}, fmt.Errorf("decode record: %w", err)
	}

	stamp := now().UTC().Format(time.RFC3339)
	book := Book{
		ID:          firstString(fields, idKeys),
		Title:       stringField(fields, "title"),
		Author:      stringField(fields, "author"),
		Genre:       stringField(fields, "genre"),
		Description: stringField(fields, "description"),
		PageCount:   resolvePageCount(fields),
		OwnerID:     firstString(fields, ownerKeys),
		CreatedAt:   stringField(fields, "createdAt"),
		UpdatedAt:   stringField(fields, "updatedAt"),
	}
	if book.CreatedAt == "" {
		book.CreatedAt = stamp
	}
	if book.UpdatedAt == "" {
		book.UpdatedAt = stamp
	}
	return book, nil
}

// resolvePageCount picks the first present page-count key and coerces
// its value. A present-but-unparsable value still wins the resolution
// and coerces to 0; later aliases are not consulted.
func resolvePageCount(fields map[string]json.RawMessage) int {
	for _, key := range pageCountKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		return coercePageCount(raw)
	}
	return 0
}

func coercePageCount(raw json.RawMessage) int {
	var numeric float64
	if err := json.Unmarshal(raw, &numeric); err == nil {
		if numeric < 0 {
			return 0
		}
		return int(numeric)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		parsed, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || parsed < 0 {
			return 0
		}
		return parsed
	}
	return 0
}

func firstString(fields map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return stringField(fields, key)
		}
	}
	return ""
}

// stringField decodes a string value, tolerating numeric identifiers by
// rendering them in their JSON form.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var numeric json.Number
	if err := json.Unmarshal(raw, &numeric); err == nil {
		return numeric.String()
	}
	return ""
}

// decodeProfile accepts both the usual {data:{...}} envelope and the
// bare object shape the profile endpoint has also returned.
func decodeProfile(raw json.RawMessage) (Profile, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// Draft returns the outbound draft for an existing record, used when an
// edit form is seeded from a fetched book.
func (b Book) Draft() BookDraft {
	return BookDraft{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		PageCount:   b.PageCount,
	}
}
