package api

import "time"

// PostRequest представляет тело запроса на создание или изменение поста
type PostRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Post представляет пост в ответах API
type Post struct {
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ID        int64     `json:"id"`
	Author    int64     `json:"author"` // id автора
}

// PostList представляет страницу списка постов
type PostList struct {
	Results    []Post `json:"results"`
	Count      int    `json:"count"` // всего постов
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// DeleteResponse представляет ответ на удаление поста
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
