package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`

	// Object-store key of the optional attached image; empty when none.
	ImageKey string `gorm:"size:255" json:"image_key"`

	Categories []Category `gorm:"many2many:post_categories;" json:"categories"`
}

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// PostResponse is a feed entry: the post plus freshly aggregated counters.
// Counts are never cached in the posts table; they are recomputed per query
// so an optimistic client can always reconcile against the true value.
type PostResponse struct {
	ID           uint         `json:"id"`
	Author       UserResponse `json:"author"`
	Title        string       `json:"title"`
	BodyHTML     string       `json:"body_html"`
	ImageKey     string       `json:"image_key,omitempty"`
	Categories   []string     `json:"categories"`
	LikeCount    int64        `json:"like_count"`
	DislikeCount int64        `json:"dislike_count"`
	CommentCount int64        `json:"comment_count"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (p *Post) ToResponse(bodyHTML string, likes, dislikes, comments int64) PostResponse {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return PostResponse{
		ID:           p.ID,
		Author:       p.Author.ToResponse(),
		Title:        p.Title,
		BodyHTML:     bodyHTML,
		ImageKey:     p.ImageKey,
		Categories:   names,
		LikeCount:    likes,
		DislikeCount: dislikes,
		CommentCount: comments,
		CreatedAt:    p.CreatedAt,
	}
}
