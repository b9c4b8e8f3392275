package repository

import (
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"gorm.io/gorm"
)

type GameSessionRepository struct {
	db *gorm.DB
}

func NewGameSessionRepository(db *gorm.DB) *GameSessionRepository {
	return &GameSessionRepository{db: db}
}

func (r *GameSessionRepository) Create(session *models.GameSession) error {
	return r.db.Create(session).Error
}

func (r *GameSessionRepository) FindByID(id uint) (*models.GameSession, error) {
	var session models.GameSession
	err := r.db.Preload("Owner").First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GameSessionRepository) Update(session *models.GameSession) error {
	return r.db.Save(session).Error
}

func (r *GameSessionRepository) ListOpen(limit int) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := r.db.Preload("Owner").
		Where("status = ?", models.SessionWaiting).
		Order("id DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// DeleteStale soft-deletes waiting sessions that nobody touched for maxAge.
// Called from the cron sweep.
func (r *GameSessionRepository) DeleteStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	res := r.db.Where("status = ? AND updated_at < ?", models.SessionWaiting, cutoff).
		Delete(&models.GameSession{})
	return res.RowsAffected, res.Error
}
