package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

// MockGameSessionRepository implements repository.GameSessionRepositoryInterface.
type MockGameSessionRepository struct {
	sessions map[uint]*models.GameSession
	nextID   uint
}

func NewMockGameSessionRepository() *MockGameSessionRepository {
	return &MockGameSessionRepository{
		sessions: make(map[uint]*models.GameSession),
		nextID:   1,
	}
}

func (m *MockGameSessionRepository) Create(session *models.GameSession) error {
	if session.ID == 0 {
		session.ID = m.nextID
		m.nextID++
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *MockGameSessionRepository) FindByID(id uint) (*models.GameSession, error) {
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGameSessionRepository) Update(session *models.GameSession) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *MockGameSessionRepository) ListOpen(limit int) ([]models.GameSession, error) {
	var out []models.GameSession
	for _, s := range m.sessions {
		if s.Status == models.SessionWaiting {
			out = append(out, *s)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockGameSessionRepository) DeleteStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	var removed int64
	for id, s := range m.sessions {
		if s.Status == models.SessionWaiting && s.State.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}
