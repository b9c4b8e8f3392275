package repository

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create is idempotent: following someone you already follow is a no-op.
func (r *FollowRepository) Create(followerID, followeeID uint) error {
	return r.db.Exec(`
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID).Error
}

func (r *FollowRepository) Delete(followerID, followeeID uint) (int64, error) {
	res := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}

func (r *FollowRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *FollowRepository) ListFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (r *FollowRepository) ListFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}
