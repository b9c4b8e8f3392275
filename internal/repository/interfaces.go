package repository

import (
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	SearchUsers(query string, limit int) ([]models.User, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindConversation(userID1, userID2 uint, limit, offset int) ([]models.Message, error)
	FindConversationSince(userID1, userID2 uint, lastID uint, limit int) ([]models.Message, error)
	FindGroupMessages(groupID uint, limit, offset int) ([]models.Message, error)
	FindGroupMessagesSince(groupID uint, lastID uint, limit int) ([]models.Message, error)
	MarkConversationRead(userID, peerID uint) (int64, error)
	GetLatestDirectMessageID(userID1, userID2 uint) (uint, error)
	GetLatestGroupMessageID(groupID uint) (uint, error)
	ListDirectConversations(userID uint, limit int) ([]ConversationRow, error)
	ListGroupConversations(userID uint, limit int) ([]GroupConversationRow, error)
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	AddMember(groupID, userID uint, role models.GroupRole) error
	RemoveMember(groupID, userID uint) error
	GetMembers(groupID uint) ([]models.User, error)
	IsMember(groupID, userID uint) (bool, error)
	GetMemberRole(groupID, userID uint) (models.GroupRole, error)
	GetUserGroups(userID uint) ([]models.Group, error)
	SearchPublicGroups(query string, limit int) ([]models.Group, error)
}

// GroupReadStateRepositoryInterface defines the contract for group read state operations
type GroupReadStateRepositoryInterface interface {
	EnsureForMember(groupID, userID uint) error
	DeleteForMember(groupID, userID uint) error
	UpsertMonotonic(groupID, userID uint, lastReadMessageID uint) error
	Get(groupID, userID uint) (*models.GroupReadState, error)
	ListByGroup(groupID uint) ([]models.GroupReadState, error)
}

// PostRepositoryInterface defines the contract for post repository operations
type PostRepositoryInterface interface {
	Create(post *models.Post) error
	FindByID(id uint) (*models.Post, error)
	Update(post *models.Post) error
	ListFeed(categoryID *uint, limit, offset int) ([]models.Post, error)
	ListByAuthor(authorID uint, limit, offset int) ([]models.Post, error)
	CreateCategory(category *models.Category) error
	ListCategories() ([]models.Category, error)
	FindCategories(ids []uint) ([]models.Category, error)
}

// ReactionRepositoryInterface defines the contract for the reaction ledger
type ReactionRepositoryInterface interface {
	Upsert(postID, userID uint, reactionType models.ReactionType) error
	Delete(postID, userID uint) (int64, error)
	Get(postID, userID uint) (*models.Reaction, error)
	Counts(postID uint) (models.ReactionCounts, error)
}

// CommentRepositoryInterface defines the contract for comment repository operations
type CommentRepositoryInterface interface {
	Create(comment *models.Comment) error
	FindByID(id uint) (*models.Comment, error)
	ListByPost(postID uint, limit, offset int) ([]models.Comment, error)
	CountByPost(postID uint) (int64, error)
}

// FollowRepositoryInterface defines the contract for the follow graph
type FollowRepositoryInterface interface {
	Create(followerID, followeeID uint) error
	Delete(followerID, followeeID uint) (int64, error)
	IsFollowing(followerID, followeeID uint) (bool, error)
	ListFollowers(userID uint) ([]models.User, error)
	ListFollowing(userID uint) ([]models.User, error)
}

// GameSessionRepositoryInterface defines the contract for lobby session operations
type GameSessionRepositoryInterface interface {
	Create(session *models.GameSession) error
	FindByID(id uint) (*models.GameSession, error)
	Update(session *models.GameSession) error
	ListOpen(limit int) ([]models.GameSession, error)
	DeleteStale(maxAge time.Duration) (int64, error)
}
