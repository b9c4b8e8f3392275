package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

// MockPostRepository implements repository.PostRepositoryInterface.
type MockPostRepository struct {
	posts      map[uint]*models.Post
	categories map[uint]*models.Category
	nextID     uint
	nextCatID  uint
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts:      make(map[uint]*models.Post),
		categories: make(map[uint]*models.Category),
		nextID:     1,
		nextCatID:  1,
	}
}

func (m *MockPostRepository) Create(post *models.Post) error {
	if post.ID == 0 {
		post.ID = m.nextID
		m.nextID++
	}
	m.posts[post.ID] = post
	return nil
}

func (m *MockPostRepository) FindByID(id uint) (*models.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPostRepository) Update(post *models.Post) error {
	if _, ok := m.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.posts[post.ID] = post
	return nil
}

func (m *MockPostRepository) ListFeed(categoryID *uint, limit, offset int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockPostRepository) ListByAuthor(authorID uint, limit, offset int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MockPostRepository) CreateCategory(category *models.Category) error {
	if category.ID == 0 {
		category.ID = m.nextCatID
		m.nextCatID++
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockPostRepository) ListCategories() ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockPostRepository) FindCategories(ids []uint) ([]models.Category, error) {
	var out []models.Category
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

type reactionKey struct {
	postID uint
	userID uint
}

// MockReactionRepository implements repository.ReactionRepositoryInterface.
type MockReactionRepository struct {
	reactions map[reactionKey]*models.Reaction
	nextID    uint
}

func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{
		reactions: make(map[reactionKey]*models.Reaction),
		nextID:    1,
	}
}

func (m *MockReactionRepository) Upsert(postID, userID uint, reactionType models.ReactionType) error {
	key := reactionKey{postID, userID}
	if existing, ok := m.reactions[key]; ok {
		existing.Type = reactionType
		existing.CreatedAt = time.Now()
		return nil
	}
	m.reactions[key] = &models.Reaction{
		ID:        m.nextID,
		PostID:    postID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: time.Now(),
	}
	m.nextID++
	return nil
}

func (m *MockReactionRepository) Delete(postID, userID uint) (int64, error) {
	key := reactionKey{postID, userID}
	if _, ok := m.reactions[key]; ok {
		delete(m.reactions, key)
		return 1, nil
	}
	return 0, nil
}

func (m *MockReactionRepository) Get(postID, userID uint) (*models.Reaction, error) {
	if r, ok := m.reactions[reactionKey{postID, userID}]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockReactionRepository) Counts(postID uint) (models.ReactionCounts, error) {
	var counts models.ReactionCounts
	for key, r := range m.reactions {
		if key.postID != postID {
			continue
		}
		switch r.Type {
		case models.ReactionLike:
			counts.Likes++
		case models.ReactionDislike:
			counts.Dislikes++
		}
	}
	return counts, nil
}

// MockCommentRepository implements repository.CommentRepositoryInterface.
type MockCommentRepository struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[uint]*models.Comment),
		nextID:   1,
	}
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == 0 {
		comment.ID = m.nextID
		m.nextID++
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) FindByID(id uint) (*models.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCommentRepository) ListByPost(postID uint, limit, offset int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockCommentRepository) CountByPost(postID uint) (int64, error) {
	var count int64
	for _, c := range m.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}
