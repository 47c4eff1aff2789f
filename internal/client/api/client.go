// Package api is a thin typed client for the bookshelf REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds every request; a silent server surfaces as a network
// error instead of a hang.
const defaultTimeout = 10 * time.Second

// User is the public user view returned by the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Book mirrors the server's recommendation payload.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	Rating    int       `json:"rating"`
	Owner     *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedPage is one page of the global feed.
type FeedPage struct {
	Books      []Book `json:"books"`
	Page       int    `json:"currentPage"`
	Limit      int    `json:"limit"`
	TotalBooks int64  `json:"totalBooks"`
	TotalPages int    `json:"totalPages"`
}

// Session is the pair returned by a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Error is a failure reported by the server, carrying its message verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// envelope is the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the session token attached to subsequent requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account. The server intentionally returns no session;
// callers log in separately.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *Client) Feed(ctx context.Context, page, limit int) (*FeedPage, error) {
	path := fmt.Sprintf("/api/books?page=%d&limit=%d", page, limit)
	var feed FeedPage
	if err := c.do(ctx, http.MethodGet, path, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *Client) Mine(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books/user", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) CreateBook(ctx context.Context, title, caption, image string, rating int) (*Book, error) {
	body := map[string]any{"title": title, "caption": caption, "image": image, "rating": rating}
	var book Book
	if err := c.do(ctx, http.MethodPost, "/api/books", body, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+id, nil, nil)
}

// do performs one request and decodes the envelope. Any transport failure,
// non-success envelope, or missing payload becomes an error; *Error carries
// server-reported messages.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid server response"}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if env.Data == nil {
			return &Error{Status: resp.StatusCode, Message: "invalid response format: missing data"}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
