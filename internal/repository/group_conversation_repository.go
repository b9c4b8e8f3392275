package repository

import (
	"strings"
	"time"
)

// GroupConversationRow is the group-chat analogue of ConversationRow: group
// info, last message, and the viewer's unread count derived from their
// GroupReadState watermark.
type GroupConversationRow struct {
	GroupID     uint   `gorm:"column:group_id"`
	GroupName   string `gorm:"column:group_name"`
	GroupIcon   string `gorm:"column:group_icon"`
	MemberCount int64  `gorm:"column:member_count"`

	UnreadCount int64 `gorm:"column:unread_count"`

	MessageID        uint      `gorm:"column:message_id"`
	MessageSenderID  uint      `gorm:"column:message_sender_id"`
	SenderUsername   string    `gorm:"column:sender_username"`
	MessageContent   string    `gorm:"column:message_content"`
	MessageCreatedAt time.Time `gorm:"column:message_created_at"`

	LastActivity time.Time `gorm:"column:last_activity"`
}

// ListGroupConversations lists the user's group chats, newest activity
// first. Visibility is scoped by current membership: the JOIN on
// group_members is the access check, so a user who left a group simply gets
// no row for it.
func (r *MessageRepository) ListGroupConversations(userID uint, limit int) ([]GroupConversationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := strings.TrimSpace(`
WITH ranked AS (
	SELECT
		m.group_id AS group_id,
		m.id AS message_id,
		m.sender_id AS message_sender_id,
		m.content AS message_content,
		m.created_at AS message_created_at,
		m.created_at AS last_activity,
		ROW_NUMBER() OVER (
			PARTITION BY m.group_id
			ORDER BY m.id DESC
		) AS rn,
		SUM(CASE WHEN m.id > COALESCE(grs.last_read_message_id, 0) AND m.sender_id <> ? THEN 1 ELSE 0 END) OVER (
			PARTITION BY m.group_id
		) AS unread_count
	FROM messages m
	JOIN group_members gm ON gm.group_id = m.group_id AND gm.user_id = ?
	LEFT JOIN group_read_states grs ON grs.group_id = m.group_id AND grs.user_id = ?
	WHERE m.group_id IS NOT NULL AND m.deleted_at IS NULL
)
SELECT
	t.group_id,
	g.name AS group_name,
	g.icon AS group_icon,
	(
		SELECT COUNT(*)
		FROM group_members gm2
		WHERE gm2.group_id = t.group_id
	) AS member_count,
	t.unread_count,
	t.message_id,
	t.message_sender_id,
	sender.username AS sender_username,
	t.message_content,
	t.message_created_at,
	t.last_activity
FROM ranked t
JOIN groups g ON g.id = t.group_id
JOIN users sender ON sender.id = t.message_sender_id
WHERE t.rn = 1
ORDER BY t.last_activity DESC, t.message_id DESC
LIMIT ?
`)

	var rows []GroupConversationRow
	if err := r.db.Raw(query, userID, userID, userID, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []GroupConversationRow{}
	}
	return rows, nil
}
