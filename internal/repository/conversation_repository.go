package repository

import (
	"strings"
	"time"
)

// ConversationRow is a denormalized row for one direct-message conversation:
// the peer's public profile, the last message, and the viewer's unread count.
//
// Deliberately not the full models.User / models.Message shape: it keeps the
// single-query aggregation cheap and avoids leaking the peer's email.
type ConversationRow struct {
	PeerID       uint       `gorm:"column:peer_id"`
	PeerUsername string     `gorm:"column:peer_username"`
	PeerFullName string     `gorm:"column:peer_full_name"`
	PeerAvatar   string     `gorm:"column:peer_avatar"`
	PeerIsOnline bool       `gorm:"column:peer_is_online"`
	PeerLastSeen *time.Time `gorm:"column:peer_last_seen"`

	UnreadCount int64 `gorm:"column:unread_count"`

	MessageID        uint      `gorm:"column:message_id"`
	MessageSenderID  uint      `gorm:"column:message_sender_id"`
	MessageContent   string    `gorm:"column:message_content"`
	MessageIsRead    bool      `gorm:"column:message_is_read"`
	MessageCreatedAt time.Time `gorm:"column:message_created_at"`

	LastActivity time.Time `gorm:"column:last_activity"`
}

// ListDirectConversations returns one row per peer the user has exchanged
// messages with, newest activity first. A single window-function query picks
// the latest message per peer and computes the unread count in the same
// pass; there is no N+1 and no server-side cache to go stale.
func (r *MessageRepository) ListDirectConversations(userID uint, limit int) ([]ConversationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := strings.TrimSpace(`
WITH ranked AS (
	SELECT
		CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END AS peer_id,
		m.id AS message_id,
		m.sender_id AS message_sender_id,
		m.content AS message_content,
		m.is_read AS message_is_read,
		m.created_at AS message_created_at,
		m.created_at AS last_activity,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END
			ORDER BY m.id DESC
		) AS rn,
		SUM(CASE WHEN m.recipient_id = ? AND m.is_read = false THEN 1 ELSE 0 END) OVER (
			PARTITION BY CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END
		) AS unread_count
	FROM messages m
	WHERE
		m.group_id IS NULL
		AND m.recipient_id IS NOT NULL
		AND m.deleted_at IS NULL
		AND (m.sender_id = ? OR m.recipient_id = ?)
)
SELECT
	t.peer_id,
	peer.username AS peer_username,
	peer.full_name AS peer_full_name,
	peer.avatar AS peer_avatar,
	peer.is_online AS peer_is_online,
	peer.last_seen AS peer_last_seen,
	t.unread_count,
	t.message_id,
	t.message_sender_id,
	t.message_content,
	t.message_is_read,
	t.message_created_at,
	t.last_activity
FROM ranked t
JOIN users peer ON peer.id = t.peer_id
WHERE t.rn = 1
ORDER BY t.last_activity DESC, t.message_id DESC
LIMIT ?
`)

	var rows []ConversationRow
	err := r.db.Raw(query, userID, userID, userID, userID, userID, userID, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ConversationRow{}
	}
	return rows, nil
}
