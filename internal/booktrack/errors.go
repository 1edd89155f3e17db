package booktrack

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed client operation. The set is closed: every
// failure path through the client terminates in exactly one kind.
type Kind int

const (
	// KindUnknown covers anything the other kinds did not match.
	KindUnknown Kind = iota
	// KindNetwork means no response reached the server.
	KindNetwork
	// KindValidation carries a field → message map from the server or
	// from a local pre-flight check.
	KindValidation
	// KindServerMessage carries a single server-provided message.
	KindServerMessage
	// KindAuth maps 401/403 responses.
	KindAuth
	// KindNotFound maps 404 responses.
	KindNotFound
)

// String returns the kind name for logs and test failures.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindServerMessage:
		return "server-message"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// fallbackMessage is what callers see when a failure matched no kind.
const fallbackMessage = "Network error"

// Error is the normalized failure shape surfaced by every client
// operation. Message is always display-ready; Fields is populated only
// for KindValidation.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string

	cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fallbackMessage
	}
	return e.Message
}

// Unwrap exposes the underlying transport error for errors.Is checks.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts the normalized error from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var normalized *Error
	if errors.As(err, &normalized) {
		return normalized, true
	}
	return nil, false
}

// ValidationError builds a local validation failure without a server
// round trip, using the same joined-message convention as server ones.
func ValidationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: joinFieldMessages(fields),
		Fields:  fields,
	}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: fallbackMessage, cause: cause}
}

func unknownError(cause error) *Error {
	return &Error{Kind: KindUnknown, Message: fallbackMessage, cause: cause}
}

// errorBody is the failure envelope the service returns: either a field
// error map, a bare message, or nothing useful at all.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// classify maps an HTTP failure response to exactly one Error. Match
// order: field-error map, then message, then auth/not-found status
// codes, then the unknown fallback.
func classify(status int, body []byte) *Error {
	var payload errorBody
	_ = json.Unmarshal(body, &payload)

	if len(payload.Errors) > 0 {
		return ValidationError(payload.Errors)
	}
	if strings.TrimSpace(payload.Message) != "" {
		return &Error{Kind: KindServerMessage, Message: payload.Message}
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuth, Message: "Not authorized"}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: "Not found"}
	}
	return &Error{Kind: KindUnknown, Message: fallbackMessage}
}

// joinFieldMessages flattens a field error map into one display string.
// Keys are sorted so the joined message is stable.
func joinFieldMessages(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, fields[key])
	}
	return strings.Join(messages, ", ")
}
