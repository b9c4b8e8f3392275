package repository

import (
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	return &message, err
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").
		Where("client_id = ? AND sender_id = ?", clientID, senderID).
		First(&message).Error
	return &message, err
}

// FindConversation returns one window of a direct conversation in
// chronological order. The query runs descending with the offset counted
// from the newest message, and the slice is reversed afterwards: offset 0 is
// the most recent `limit` messages, offset `limit` the window before that.
func (r *MessageRepository) FindConversation(userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			userID1, userID2, userID2, userID1).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error

	reverseMessages(messages)
	return messages, err
}

// FindConversationSince is the poll read path: messages with id > lastID,
// ascending, capped at limit. Safe to call repeatedly with a stale or zero
// cursor; it has no side effects.
func (r *MessageRepository) FindConversationSince(userID1, userID2 uint, lastID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			userID1, userID2, userID2, userID1).
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// FindGroupMessages mirrors FindConversation for a group: windows counted
// back from the newest message, fetched descending then reversed.
func (r *MessageRepository) FindGroupMessages(groupID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("group_id = ?", groupID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error

	reverseMessages(messages)
	return messages, err
}

func (r *MessageRepository) FindGroupMessagesSince(groupID uint, lastID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("group_id = ? AND id > ?", groupID, lastID).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flips every unread message from peer -> user to read
// and returns how many rows changed. Zero is a normal outcome; the update is
// a monotonic set-based write, so concurrent calls for the same pair cannot
// lose each other's work.
func (r *MessageRepository) MarkConversationRead(userID, peerID uint) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = false", userID, peerID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *MessageRepository) GetLatestDirectMessageID(userID1, userID2 uint) (uint, error) {
	var id uint
	err := r.db.Model(&models.Message{}).
		Select("COALESCE(MAX(id), 0)").
		Where("group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			userID1, userID2, userID2, userID1).
		Scan(&id).Error
	return id, err
}

func (r *MessageRepository) GetLatestGroupMessageID(groupID uint) (uint, error) {
	var id uint
	err := r.db.Model(&models.Message{}).
		Select("COALESCE(MAX(id), 0)").
		Where("group_id = ?", groupID).
		Scan(&id).Error
	return id, err
}

func reverseMessages(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
