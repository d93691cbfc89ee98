package models

import "time"

// Post represents a blog post owned by its author
type Post struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"` // creation time
	Title     string    `json:"title" db:"title"`           // trimmed, non-empty
	Content   string    `json:"content" db:"content"`       // trimmed, non-empty
	ID        int64     `json:"id" db:"id"`                 // post id
	Author    int64     `json:"author" db:"author_id"`      // id of the owning user
}

// IsAuthoredBy reports whether the post belongs to the given user id
func (p *Post) IsAuthoredBy(userID int64) bool {
	return p.Author == userID
}
