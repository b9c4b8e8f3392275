package repository

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"gorm.io/gorm"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert enforces one reaction per (post, user). A second reaction with a
// different type replaces the first and re-stamps created_at; the same type
// leaves the row as-is apart from the timestamp refresh.
func (r *ReactionRepository) Upsert(postID, userID uint, reactionType models.ReactionType) error {
	return r.db.Exec(`
		INSERT INTO reactions (post_id, user_id, type, created_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (post_id, user_id) DO UPDATE
		SET type = EXCLUDED.type, created_at = NOW()
	`, postID, userID, string(reactionType)).Error
}

func (r *ReactionRepository) Delete(postID, userID uint) (int64, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{})
	return res.RowsAffected, res.Error
}

func (r *ReactionRepository) Get(postID, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Counts aggregates fresh from the ledger; there is no materialized counter
// to drift out of sync.
func (r *ReactionRepository) Counts(postID uint) (models.ReactionCounts, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return models.ReactionCounts{}, err
	}

	var counts models.ReactionCounts
	for _, rw := range rows {
		switch models.ReactionType(rw.Type) {
		case models.ReactionLike:
			counts.Likes = rw.Count
		case models.ReactionDislike:
			counts.Dislikes = rw.Count
		}
	}
	return counts, nil
}
