package storage

// Well-known storage keys. Cleanup removes every one of these on logout,
// so new session-scoped entries belong in this list (or under a
// transient prefix).
const (
	KeyUserData     = "userData"
	KeyAppSettings  = "appSettings"
	KeyBooksCache   = "booksCache"
	KeyProfileCache = "userProfileCache"
)

// TransientPrefixes marks disposable entries created ad hoc elsewhere;
// cleanup sweeps every stored key carrying one of them.
var TransientPrefixes = []string{"temp_", "cache_"}
