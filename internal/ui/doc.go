// Package ui implements the Bubble Tea terminal interface: sign-in,
// registration, the book list with add/edit/delete, and the profile
// editor. Screens are thin — every network effect goes through the
// booktrack client or the library reconciler via tea commands, and the
// model only reacts to their result messages.
package ui
