package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/blogapi/pkg/api"
)

// Error ответ сервера с кодом вне 2xx
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsUnauthorized сообщает, что сервер ответил 401
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Копируем заголовок Authorization при редиректе
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login получает пару токенов
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh токен на новый access токен
func (c *Client) Refresh(ctx context.Context, refresh string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", "", api.RefreshRequest{Refresh: refresh}, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// ListPosts возвращает страницу постов; 0 - значение сервера по умолчанию
func (c *Client) ListPosts(ctx context.Context, page, pageSize int) (*api.PostList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp api.PostList
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return &resp, nil
}

// GetPost возвращает пост по id
func (c *Client) GetPost(ctx context.Context, id int64) (*api.Post, error) {
	var resp api.Post
	if err := c.doRequest(ctx, http.MethodGet, postPath(id), "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get post failed: %w", err)
	}
	return &resp, nil
}

// CreatePost создает пост от имени владельца access токена
func (c *Client) CreatePost(ctx context.Context, access string, req api.PostRequest) (*api.Post, error) {
	var resp api.Post
	if err := c.doRequest(ctx, http.MethodPost, "/posts", access, req, &resp); err != nil {
		return nil, fmt.Errorf("create post failed: %w", err)
	}
	return &resp, nil
}

// UpdatePost изменяет непустые поля поста
func (c *Client) UpdatePost(ctx context.Context, access string, id int64, req api.PostRequest) (*api.Post, error) {
	var resp api.Post
	if err := c.doRequest(ctx, http.MethodPut, postPath(id), access, req, &resp); err != nil {
		return nil, fmt.Errorf("update post failed: %w", err)
	}
	return &resp, nil
}

// DeletePost удаляет пост
func (c *Client) DeletePost(ctx context.Context, access string, id int64) (*api.DeleteResponse, error) {
	var resp api.DeleteResponse
	if err := c.doRequest(ctx, http.MethodDelete, postPath(id), access, nil, &resp); err != nil {
		return nil, fmt.Errorf("delete post failed: %w", err)
	}
	return &resp, nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, access string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
