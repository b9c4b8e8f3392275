package service

import (
	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

type readStateKey struct {
	groupID uint
	userID  uint
}

// MockGroupReadStateRepository is a mock implementation for tests.
// It implements repository.GroupReadStateRepositoryInterface.
type MockGroupReadStateRepository struct {
	states map[readStateKey]uint
}

func NewMockGroupReadStateRepository() *MockGroupReadStateRepository {
	return &MockGroupReadStateRepository{states: make(map[readStateKey]uint)}
}

func (m *MockGroupReadStateRepository) EnsureForMember(groupID, userID uint) error {
	key := readStateKey{groupID, userID}
	if _, ok := m.states[key]; !ok {
		m.states[key] = 0
	}
	return nil
}

func (m *MockGroupReadStateRepository) DeleteForMember(groupID, userID uint) error {
	delete(m.states, readStateKey{groupID, userID})
	return nil
}

func (m *MockGroupReadStateRepository) UpsertMonotonic(groupID, userID uint, lastReadMessageID uint) error {
	key := readStateKey{groupID, userID}
	if current, ok := m.states[key]; !ok || lastReadMessageID > current {
		m.states[key] = lastReadMessageID
	}
	return nil
}

func (m *MockGroupReadStateRepository) Get(groupID, userID uint) (*models.GroupReadState, error) {
	key := readStateKey{groupID, userID}
	if lastRead, ok := m.states[key]; ok {
		return &models.GroupReadState{
			GroupID:           groupID,
			UserID:            userID,
			LastReadMessageID: lastRead,
		}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupReadStateRepository) ListByGroup(groupID uint) ([]models.GroupReadState, error) {
	var out []models.GroupReadState
	for key, lastRead := range m.states {
		if key.groupID == groupID {
			out = append(out, models.GroupReadState{
				GroupID:           key.groupID,
				UserID:            key.userID,
				LastReadMessageID: lastRead,
			})
		}
	}
	return out, nil
}
