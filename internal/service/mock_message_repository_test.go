package service

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
)

// MockMessageRepository is an in-memory implementation for tests.
// It implements repository.MessageRepositoryInterface.
type MockMessageRepository struct {
	messages  map[uint]*models.Message
	nextID    uint
	createErr error

	// Wired by UseGroupState for tests that exercise the group chat list.
	groups     *MockGroupRepository
	readStates *MockGroupReadStateRepository
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	copied := *message
	m.messages[message.ID] = &copied
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) sortedIDs() []uint {
	ids := make([]uint, 0, len(m.messages))
	for id := range m.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func isBetween(msg *models.Message, userID1, userID2 uint) bool {
	if msg.GroupID != nil || msg.RecipientID == nil {
		return false
	}
	return (msg.SenderID == userID1 && *msg.RecipientID == userID2) ||
		(msg.SenderID == userID2 && *msg.RecipientID == userID1)
}

func (m *MockMessageRepository) FindConversation(userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	var all []models.Message
	for _, id := range m.sortedIDs() {
		if msg := m.messages[id]; isBetween(msg, userID1, userID2) {
			all = append(all, *msg)
		}
	}
	return windowFromNewest(all, limit, offset), nil
}

func (m *MockMessageRepository) FindConversationSince(userID1, userID2 uint, lastID uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, id := range m.sortedIDs() {
		msg := m.messages[id]
		if msg.ID > lastID && isBetween(msg, userID1, userID2) {
			out = append(out, *msg)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockMessageRepository) FindGroupMessages(groupID uint, limit, offset int) ([]models.Message, error) {
	var all []models.Message
	for _, id := range m.sortedIDs() {
		msg := m.messages[id]
		if msg.GroupID != nil && *msg.GroupID == groupID {
			all = append(all, *msg)
		}
	}
	return windowFromNewest(all, limit, offset), nil
}

// windowFromNewest slices a chronological history the way the descending
// OFFSET query does: offset counts back from the newest message, and the
// returned window stays in chronological order.
func windowFromNewest(all []models.Message, limit, offset int) []models.Message {
	end := len(all) - offset
	if end <= 0 {
		return nil
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return all[start:end]
}

func (m *MockMessageRepository) FindGroupMessagesSince(groupID uint, lastID uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, id := range m.sortedIDs() {
		msg := m.messages[id]
		if msg.ID > lastID && msg.GroupID != nil && *msg.GroupID == groupID {
			out = append(out, *msg)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockMessageRepository) MarkConversationRead(userID, peerID uint) (int64, error) {
	var updated int64
	now := time.Now()
	for _, msg := range m.messages {
		if msg.GroupID == nil && msg.RecipientID != nil &&
			msg.SenderID == peerID && *msg.RecipientID == userID && !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func (m *MockMessageRepository) GetLatestDirectMessageID(userID1, userID2 uint) (uint, error) {
	var latest uint
	for _, msg := range m.messages {
		if isBetween(msg, userID1, userID2) && msg.ID > latest {
			latest = msg.ID
		}
	}
	return latest, nil
}

func (m *MockMessageRepository) GetLatestGroupMessageID(groupID uint) (uint, error) {
	var latest uint
	for _, msg := range m.messages {
		if msg.GroupID != nil && *msg.GroupID == groupID && msg.ID > latest {
			latest = msg.ID
		}
	}
	return latest, nil
}

func (m *MockMessageRepository) ListDirectConversations(userID uint, limit int) ([]repository.ConversationRow, error) {
	rows := make(map[uint]*repository.ConversationRow)
	for _, id := range m.sortedIDs() {
		msg := m.messages[id]
		if msg.GroupID != nil || msg.RecipientID == nil {
			continue
		}
		var peer uint
		switch {
		case msg.SenderID == userID:
			peer = *msg.RecipientID
		case *msg.RecipientID == userID:
			peer = msg.SenderID
		default:
			continue
		}
		row, ok := rows[peer]
		if !ok {
			row = &repository.ConversationRow{PeerID: peer}
			rows[peer] = row
		}
		row.MessageID = msg.ID
		row.MessageSenderID = msg.SenderID
		row.MessageContent = msg.Content
		row.MessageIsRead = msg.IsRead
		row.MessageCreatedAt = msg.CreatedAt
		row.LastActivity = msg.CreatedAt
		if msg.SenderID == peer && !msg.IsRead {
			row.UnreadCount++
		}
	}

	out := make([]repository.ConversationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID > out[j].MessageID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UseGroupState lets ListGroupConversations consult memberships and read
// watermarks, mirroring the JOINs the real query performs.
func (m *MockMessageRepository) UseGroupState(groups *MockGroupRepository, readStates *MockGroupReadStateRepository) {
	m.groups = groups
	m.readStates = readStates
}

func (m *MockMessageRepository) ListGroupConversations(userID uint, limit int) ([]repository.GroupConversationRow, error) {
	if m.groups == nil {
		return []repository.GroupConversationRow{}, nil
	}

	rows := make(map[uint]*repository.GroupConversationRow)
	for _, id := range m.sortedIDs() {
		msg := m.messages[id]
		if msg.GroupID == nil {
			continue
		}
		groupID := *msg.GroupID
		if member, _ := m.groups.IsMember(groupID, userID); !member {
			continue
		}

		var watermark uint
		if m.readStates != nil {
			if state, err := m.readStates.Get(groupID, userID); err == nil {
				watermark = state.LastReadMessageID
			}
		}

		row, ok := rows[groupID]
		if !ok {
			row = &repository.GroupConversationRow{GroupID: groupID}
			if g, err := m.groups.FindByID(groupID); err == nil {
				row.GroupName = g.Name
			}
			rows[groupID] = row
		}
		row.MessageID = msg.ID
		row.MessageSenderID = msg.SenderID
		row.MessageContent = msg.Content
		row.MessageCreatedAt = msg.CreatedAt
		row.LastActivity = msg.CreatedAt
		// Own sends are never unread.
		if msg.ID > watermark && msg.SenderID != userID {
			row.UnreadCount++
		}
	}

	out := make([]repository.GroupConversationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID > out[j].MessageID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
