package models

import (
	"time"
)

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction holds at most one row per (post, user). Reacting again with a
// different type replaces the row and re-stamps CreatedAt; reacting with the
// same type is a no-op at the ledger level (toggling is a client decision).
type Reaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PostID uint         `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID uint         `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	Type   ReactionType `gorm:"type:varchar(10);not null" json:"type"`
}

// ReactionCounts is always aggregated fresh from the ledger.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}
