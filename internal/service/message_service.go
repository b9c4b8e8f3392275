package service

import (
	"github.com/google/uuid"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/validation"
)

// MessageService owns the messaging core: sends, the poll read path, history
// pages, and direct-message read tracking. Group read watermarks live in
// GroupService.
type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
}

func NewMessageService(messageRepo repository.MessageRepositoryInterface, groupRepo repository.GroupRepositoryInterface) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		groupRepo:   groupRepo,
	}
}

type SendDirectInput struct {
	RecipientID uint   `json:"recipient_id"`
	ClientID    string `json:"client_id"`
	Content     string `json:"content"`
}

type SendGroupInput struct {
	GroupID  uint   `json:"group_id"`
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
}

// SendDirect appends exactly one message row. Empty-after-trim content and
// self-messaging are validation failures checked before anything is written.
// A repeated ClientID returns the original row instead of a duplicate.
func (s *MessageService) SendDirect(senderID uint, input SendDirectInput) (*models.Message, error) {
	content := validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if content == "" {
		return nil, Invalid("message content is required")
	}
	if input.RecipientID == 0 {
		return nil, Invalid("recipient_id is required")
	}
	if input.RecipientID == senderID {
		return nil, Invalid("cannot message yourself")
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	} else if existing, err := s.messageRepo.FindByClientID(clientID, senderID); err == nil {
		return existing, nil
	}

	recipientID := input.RecipientID
	message := &models.Message{
		ClientID:    clientID,
		SenderID:    senderID,
		RecipientID: &recipientID,
		Content:     content,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByID(message.ID)
}

// SendGroup behaves like SendDirect but gates on current membership: a
// non-member send is an authorization failure, not a validation one.
func (s *MessageService) SendGroup(senderID uint, input SendGroupInput) (*models.Message, error) {
	content := validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if content == "" {
		return nil, Invalid("message content is required")
	}
	if input.GroupID == 0 {
		return nil, Invalid("group_id is required")
	}

	isMember, err := s.groupRepo.IsMember(input.GroupID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, Unauthorized("not a member of group %d", input.GroupID)
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	} else if existing, err := s.messageRepo.FindByClientID(clientID, senderID); err == nil {
		return existing, nil
	}

	groupID := input.GroupID
	message := &models.Message{
		ClientID: clientID,
		SenderID: senderID,
		GroupID:  &groupID,
		Content:  content,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByID(message.ID)
}

// GetConversationPage returns one window of a direct conversation in
// chronological order. Offset counts back from the newest message, so offset
// 0 is the initial load and offset N pages into history.
func (s *MessageService) GetConversationPage(userID, peerID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.FindConversation(userID, peerID, limit, offset)
}

// GetConversationSince is the poll read path: everything newer than the
// client's cursor, ascending. Repeated calls with a stale or zero cursor are
// harmless.
func (s *MessageService) GetConversationSince(userID, peerID uint, lastID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.messageRepo.FindConversationSince(userID, peerID, lastID, limit)
}

func (s *MessageService) GetGroupPage(userID, groupID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindGroupMessages(groupID, limit, offset)
}

func (s *MessageService) GetGroupSince(userID, groupID uint, lastID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindGroupMessagesSince(groupID, lastID, limit)
}

// MarkConversationRead flips all unread peer->user messages to read and
// returns the count. Idempotent: a second call returns 0 without error.
func (s *MessageService) MarkConversationRead(userID, peerID uint) (int64, error) {
	return s.messageRepo.MarkConversationRead(userID, peerID)
}

// ListConversations never fails on an empty inbox; a user with no messages
// gets an empty slice.
func (s *MessageService) ListConversations(userID uint, limit int) ([]repository.ConversationRow, error) {
	return s.messageRepo.ListDirectConversations(userID, limit)
}

func (s *MessageService) ListGroupConversations(userID uint, limit int) ([]repository.GroupConversationRow, error) {
	return s.messageRepo.ListGroupConversations(userID, limit)
}

func (s *MessageService) LatestDirectMessageID(userID, peerID uint) (uint, error) {
	return s.messageRepo.GetLatestDirectMessageID(userID, peerID)
}

func (s *MessageService) LatestGroupMessageID(groupID uint) (uint, error) {
	return s.messageRepo.GetLatestGroupMessageID(groupID)
}

func (s *MessageService) requireMember(groupID, userID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return Unauthorized("not a member of group %d", groupID)
	}
	return nil
}
