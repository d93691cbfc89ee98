package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage"
)

// CreatePost stores a new post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := s.db.Rebind(`
		INSERT INTO posts (title, content, author_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	createdAt := time.Now().UTC()

	var id int64
	err := s.db.QueryRowxContext(ctx, query, post.Title, post.Content, post.Author, createdAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.ID = id
	post.CreatedAt = createdAt

	return nil
}

// GetPost retrieves a post by ID
func (s *Storage) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	query := s.db.Rebind(`
		SELECT id, title, content, author_id, created_at
		FROM posts
		WHERE id = ?
	`)

	post := &models.Post{}
	if err := s.db.GetContext(ctx, post, query, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListPosts returns posts ordered newest first
func (s *Storage) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	query := s.db.Rebind(`
		SELECT id, title, content, author_id, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)

	posts := make([]*models.Post, 0, limit)
	if err := s.db.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// CountPosts returns the total number of posts
func (s *Storage) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

// UpdatePost saves title and content of an existing post
func (s *Storage) UpdatePost(ctx context.Context, post *models.Post) error {
	query := s.db.Rebind(`
		UPDATE posts
		SET title = ?, content = ?
		WHERE id = ?
	`)

	result, err := s.db.ExecContext(ctx, query, post.Title, post.Content, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPostNotFound
	}

	return nil
}

// DeletePost deletes a post by ID
func (s *Storage) DeletePost(ctx context.Context, postID int64) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM posts WHERE id = ?`), postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPostNotFound
	}

	return nil
}
