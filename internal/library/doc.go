// Package library keeps the in-memory book list in sync with the
// remote store.
//
// The Library is the single authority for the active list view: it
// issues API calls and, only on confirmed success, applies their effect
// locally — full replace on refresh, append on create, in-place replace
// on update, first-match removal on delete. A failed call leaves the
// list exactly as it was, so the UI always renders the last state the
// server confirmed.
//
// Access is mutex-guarded because Bubble Tea commands run on their own
// goroutines; reads return defensive copies. The layer deliberately
// does not fence overlapping mutations for the same id — the response
// that lands last wins, matching the service's own semantics.
package library
