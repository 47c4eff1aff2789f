package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_LoginDecodesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])

		jsonResponse(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"token": "tkn-abc",
				"user":  map[string]any{"id": "u1", "username": "alice", "email": "alice@example.com"},
			},
		})
	}))
	defer srv.Close()

	sess, err := New(srv.URL).Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tkn-abc", sess.Token)
	assert.Equal(t, "alice", sess.User.Username)
}

func TestClient_ServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid email or password",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestClient_MissingDataPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid response format: missing data", apiErr.Message)
}

func TestClient_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	err := New(srv.URL).Register(context.Background(), "alice", "a@b.c", "secret1")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "invalid server response", apiErr.Message)
}

func TestClient_RegisterHasNoSessionPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "User registered successfully",
		})
	}))
	defer srv.Close()

	// Register decodes no payload, so the absent data entry is fine.
	require.NoError(t, New(srv.URL).Register(context.Background(), "alice", "a@b.c", "secret1"))
}

func TestClient_TokenAttachedAfterSetToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		jsonResponse(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Books fetched successfully",
			"data": map[string]any{
				"books": []any{}, "currentPage": 1, "limit": 10, "totalBooks": 0, "totalPages": 0,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tkn-abc")
	feed, err := c.Feed(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tkn-abc", gotAuth)
	assert.Empty(t, feed.Books)

	c.SetToken("")
	_, err = c.Feed(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "cleared token must not be sent")
}

func TestClient_DeleteBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/books/b1", r.URL.Path)
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "message": "Book deleted successfully"})
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).DeleteBook(context.Background(), "b1"))
}
