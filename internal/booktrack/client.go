package booktrack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the surface the reconciliation layer consumes. It is
// implemented by *Client and by fakes in tests.
type API interface {
	ListBooks(ctx context.Context, query ListQuery) ([]Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, draft BookDraft) (Book, error)
	UpdateBook(ctx context.Context, id string, draft BookDraft) (Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// TokenSource yields the current session credential. It is consulted on
// every request so a cleared session takes effect immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the book-tracking service HTTP API. Every failure it
// returns is a *Error; raw transport errors never escape.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given server URL. tokens may be nil
// for a purely anonymous client.
func NewClient(serverURL string, tokens TokenSource) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// SetTimeout overrides the default per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// Login exchanges credentials for a session token. The caller owns
// storing the token; the client never writes the session itself.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &payload); err != nil {
		return "", err
	}
	token := strings.TrimSpace(payload.Data.Token)
	if token == "" {
		return "", &Error{Kind: KindUnknown, Message: "no token received from login"}
	}
	return token, nil
}

// Register creates an account and returns the server acknowledgment.
func (c *Client) Register(ctx context.Context, username, password, email string) (string, error) {
	body := map[string]string{"username": username, "password": password, "email": email}
	var payload struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// Profile fetches the signed-in account. The endpoint has returned both
// an enveloped and a bare object over time; both are accepted.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &raw); err != nil {
		return Profile{}, err
	}
	profile, err := decodeProfile(raw)
	if err != nil {
		return Profile{}, unknownError(err)
	}
	if profile.Username == "" || profile.Email == "" {
		return Profile{}, &Error{Kind: KindUnknown, Message: "invalid profile data received"}
	}
	return profile, nil
}

// UpdateProfile saves username/email changes and returns the stored
// profile.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) (Profile, error) {
	var payload struct {
		Data Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile", nil, profile, &payload); err != nil {
		return Profile{}, err
	}
	return payload.Data, nil
}

// ListQuery configures /books list requests.
type ListQuery struct {
	Genre  string
	Author string
	Page   int
	Limit  int
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if genre := strings.TrimSpace(q.Genre); genre != "" {
		values.Set("genre", genre)
	}
	if author := strings.TrimSpace(q.Author); author != "" {
		values.Set("author", author)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// ListBooks retrieves the full list and normalizes every record,
// preserving server order.
func (c *Client) ListBooks(ctx context.Context, query ListQuery) ([]Book, error) {
	var payload struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/books", query.values(), nil, &payload); err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(payload.Data))
	for _, raw := range payload.Data {
		book, err := NormalizeBook(raw)
		if err != nil {
			return nil, unknownError(err)
		}
		books = append(books, book)
	}
	return books, nil
}

// GetBook fetches a single record by identifier.
func (c *Client) GetBook(ctx context.Context, id string) (Book, error) {
	return c.bookCall(ctx, http.MethodGet, "/books/"+id, nil)
}

// CreateBook sends a draft and returns the normalized stored record.
func (c *Client) CreateBook(ctx context.Context, draft BookDraft) (Book, error) {
	return c.bookCall(ctx, http.MethodPost, "/books", draft)
}

// UpdateBook replaces a record's fields and returns the normalized
// result.
func (c *Client) UpdateBook(ctx context.Context, id string, draft BookDraft) (Book, error) {
	return c.bookCall(ctx, http.MethodPut, "/books/"+id, draft)
}

// DeleteBook removes a record. The service answers with an empty
// success body.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+id, nil, nil, nil)
}

func (c *Client) bookCall(ctx context.Context, method, endpoint string, body any) (Book, error) {
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, method, endpoint, nil, body, &payload); err != nil {
		return Book{}, err
	}
	book, err := NormalizeBook(payload.Data)
	if err != nil {
		return Book{}, unknownError(err)
	}
	return book, nil
}

// do executes one request. Responsibilities, in order: encode the body,
// attach the session credential when one is readable, execute, and map
// any failure to a *Error. A failed session read degrades to an
// anonymous request instead of failing the call.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = path.Join(reqURL.Path, endpoint)
	reqURL.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return unknownError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return unknownError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, err := c.tokens.Token(ctx); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}
	if resp.StatusCode >= 400 {
		return classify(resp.StatusCode, payload)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return unknownError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
