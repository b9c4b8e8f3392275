package repository

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Categories").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// ListFeed returns the newest posts, optionally filtered to one category.
func (r *PostRepository) ListFeed(categoryID *uint, limit, offset int) ([]models.Post, error) {
	q := r.db.Preload("Author").Preload("Categories").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset)
	if categoryID != nil {
		q = q.Joins("JOIN post_categories pc ON pc.post_id = posts.id").
			Where("pc.category_id = ?", *categoryID)
	}

	var posts []models.Post
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostRepository) ListByAuthor(authorID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Categories").
		Where("author_id = ?", authorID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *PostRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *PostRepository) FindCategories(ids []uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}
