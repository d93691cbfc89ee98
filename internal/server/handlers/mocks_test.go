package handlers

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // username -> User
	createError error
	getError    error
	nextID      int64
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) DeleteUser(_ context.Context, id int64) error {
	for name, user := range m.users {
		if user.ID == id {
			delete(m.users, name)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockPostStorage is a mock implementation of PostStorage for testing
type mockPostStorage struct {
	posts       map[int64]*models.Post
	err         error
	nextID      int64
	updateCalls int
}

func newMockPostStorage() *mockPostStorage {
	return &mockPostStorage{posts: make(map[int64]*models.Post)}
}

func (m *mockPostStorage) CreatePost(_ context.Context, post *models.Post) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	post.ID = m.nextID
	post.CreatedAt = time.Now().UTC()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostStorage) GetPost(_ context.Context, id int64) (*models.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *mockPostStorage) ListPosts(_ context.Context, offset, limit int) ([]*models.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]int64, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	result := []*models.Post{}
	for i := offset; i < len(ids) && i < offset+limit; i++ {
		copied := *m.posts[ids[i]]
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockPostStorage) CountPosts(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.posts), nil
}

func (m *mockPostStorage) UpdatePost(_ context.Context, post *models.Post) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[post.ID]; !ok {
		return storage.ErrPostNotFound
	}
	m.updateCalls++
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostStorage) DeletePost(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[id]; !ok {
		return storage.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}
