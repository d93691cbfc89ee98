package storage

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// PostStorage defines interface for blog post persistence
type PostStorage interface {
	// CreatePost stores a new post and sets its ID and CreatedAt
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a post by ID
	// Returns ErrPostNotFound if post doesn't exist
	GetPost(ctx context.Context, postID int64) (*models.Post, error)

	// ListPosts returns a page of posts, newest first
	// Returns empty slice if offset is past the end
	ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error)

	// CountPosts returns the total number of posts
	CountPosts(ctx context.Context) (int, error)

	// UpdatePost saves title and content of an existing post
	// Returns ErrPostNotFound if post doesn't exist
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePost deletes a post by ID
	// Returns ErrPostNotFound if post doesn't exist
	DeletePost(ctx context.Context, postID int64) error
}
