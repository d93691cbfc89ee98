package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blogapi/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8000", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "pass1234", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.RegisterResponse{User: api.UserView{ID: 7, Username: "alice"}})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Register(t.Context(), api.RegisterRequest{Username: "alice", Password: "pass1234"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedErrMsg string
		statusCode     int
		unauthorized   bool
	}{
		{
			name:           "Validation error",
			statusCode:     http.StatusBadRequest,
			body:           `{"error":"username already taken"}`,
			expectedErrMsg: "server error (400): username already taken",
		},
		{
			name:           "Unauthorized",
			statusCode:     http.StatusUnauthorized,
			body:           `{"error":"Invalid credentials"}`,
			expectedErrMsg: "server error (401): Invalid credentials",
			unauthorized:   true,
		},
		{
			name:           "Non-JSON body",
			statusCode:     http.StatusBadGateway,
			body:           "Bad Gateway",
			expectedErrMsg: "request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL).Login(t.Context(), api.LoginRequest{Username: "a", Password: "b"})

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.statusCode, apiErr.Status)
		})
	}
}

func TestClient_LoginAndRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_ = json.NewEncoder(w).Encode(api.LoginResponse{Tokens: api.TokenPair{Access: "a1", Refresh: "r1"}})
		case "/auth/refresh":
			var req api.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "r1", req.Refresh)
			_ = json.NewEncoder(w).Encode(api.RefreshResponse{Access: "a2"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	login, err := client.Login(t.Context(), api.LoginRequest{Username: "bob", Password: "secretpw"})
	require.NoError(t, err)
	assert.Equal(t, "a1", login.Tokens.Access)
	assert.Equal(t, "r1", login.Tokens.Refresh)

	refreshed, err := client.Refresh(t.Context(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", refreshed.Access)
}

func TestClient_Posts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/posts":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("page_size"))
			_ = json.NewEncoder(w).Encode(api.PostList{Count: 6, Page: 2, PageSize: 5, TotalPages: 2, Results: []api.Post{{ID: 1, Title: "t"}}})
		case r.Method == http.MethodGet && r.URL.Path == "/posts/3":
			_ = json.NewEncoder(w).Encode(api.Post{ID: 3, Title: "three", Author: 1})
		case r.Method == http.MethodPost && r.URL.Path == "/posts":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var req api.PostRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(api.Post{ID: 4, Title: req.Title, Content: req.Content})
		case r.Method == http.MethodPut && r.URL.Path == "/posts/4":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(api.Post{ID: 4, Title: "edited"})
		case r.Method == http.MethodDelete && r.URL.Path == "/posts/4":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(api.DeleteResponse{Deleted: true})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not found"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := t.Context()

	list, err := client.ListPosts(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 6, list.Count)
	assert.Len(t, list.Results, 1)

	post, err := client.GetPost(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "three", post.Title)

	created, err := client.CreatePost(ctx, "tok", api.PostRequest{Title: "new", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "new", created.Title)

	updated, err := client.UpdatePost(ctx, "tok", 4, api.PostRequest{Title: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)

	deleted, err := client.DeletePost(ctx, "tok", 4)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = client.GetPost(ctx, 99)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Not found", apiErr.Message)
}
