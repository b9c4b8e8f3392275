package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a single chat message, either direct (RecipientID set) or
// group-scoped (GroupID set). Exactly one of the two is non-nil.
//
// Rows are append-only: content is never edited or deleted by the messaging
// subsystem. The only mutable field is IsRead, which moves unread -> read and
// never back. ID is assigned by the database at insert time and defines the
// visibility order within a conversation.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UUID supplied by the client so retried sends don't duplicate rows.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	SenderID    uint   `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`
	Sender      User   `gorm:"foreignKey:SenderID" json:"sender"`
	RecipientID *uint  `gorm:"index" json:"recipient_id"` // null for group messages
	GroupID     *uint  `gorm:"index" json:"group_id"`     // null for direct messages
	Group       *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	// Read tracking applies to direct messages only. Group read progress
	// lives in GroupReadState.
	IsRead bool       `gorm:"default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}

// MessageResponse is the wire shape handed to polling clients. HTML carries
// the server-rendered fragment for the message; the server owns markup.
type MessageResponse struct {
	ID          uint         `json:"id"`
	ClientID    string       `json:"client_id"`
	SenderID    uint         `json:"sender_id"`
	Sender      UserResponse `json:"sender"`
	RecipientID *uint        `json:"recipient_id"`
	GroupID     *uint        `json:"group_id"`
	Content     string       `json:"content"`
	HTML        string       `json:"html"`
	IsRead      bool         `json:"is_read"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (m *Message) ToResponse(html string) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		SenderID:    m.SenderID,
		Sender:      m.Sender.ToResponse(),
		RecipientID: m.RecipientID,
		GroupID:     m.GroupID,
		Content:     m.Content,
		HTML:        html,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}
