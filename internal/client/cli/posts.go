package cli

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/blogapi/pkg/api"
)

// RunListPosts выводит страницу постов
func (c *Cli) RunListPosts(ctx context.Context, page, pageSize int) error {
	list, err := c.apiClient.ListPosts(ctx, page, pageSize)
	if err != nil {
		return err
	}

	if len(list.Results) == 0 {
		c.io.Println("No posts.")
	}
	for i := range list.Results {
		c.printPostLine(&list.Results[i])
	}
	c.io.Printf("Page %d of %d (%d posts)\n", list.Page, list.TotalPages, list.Count)
	return nil
}

// RunGetPost выводит пост полностью
func (c *Cli) RunGetPost(ctx context.Context, id int64) error {
	post, err := c.apiClient.GetPost(ctx, id)
	if err != nil {
		return err
	}
	c.printPost(post)
	return nil
}

// RunCreatePost публикует пост от имени текущего пользователя
func (c *Cli) RunCreatePost(ctx context.Context, title, content string) error {
	if title == "" || content == "" {
		return errors.New("title and content are required")
	}

	var post *api.Post
	err := c.authService.WithAccess(ctx, func(access string) error {
		var err error
		post, err = c.apiClient.CreatePost(ctx, access, api.PostRequest{Title: title, Content: content})
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Post #%d created\n", post.ID)
	return nil
}

// RunUpdatePost изменяет непустые поля поста
func (c *Cli) RunUpdatePost(ctx context.Context, id int64, title, content string) error {
	if title == "" && content == "" {
		return errors.New("nothing to update: pass --title and/or --content")
	}

	var post *api.Post
	err := c.authService.WithAccess(ctx, func(access string) error {
		var err error
		post, err = c.apiClient.UpdatePost(ctx, access, id, api.PostRequest{Title: title, Content: content})
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Post #%d updated\n", post.ID)
	c.printPost(post)
	return nil
}

// RunDeletePost удаляет пост
func (c *Cli) RunDeletePost(ctx context.Context, id int64) error {
	err := c.authService.WithAccess(ctx, func(access string) error {
		_, err := c.apiClient.DeletePost(ctx, access, id)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Post #%d deleted\n", id)
	return nil
}

func (c *Cli) printPostLine(p *api.Post) {
	c.io.Printf("#%d  %s  (author %d, %s)\n", p.ID, p.Title, p.Author, p.CreatedAt.Format(time.RFC3339))
}

func (c *Cli) printPost(p *api.Post) {
	c.printPostLine(p)
	c.io.Println()
	c.io.Println(p.Content)
}
