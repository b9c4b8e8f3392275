package service

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

type followKey struct {
	followerID uint
	followeeID uint
}

// MockFollowRepository implements repository.FollowRepositoryInterface.
type MockFollowRepository struct {
	edges map[followKey]bool
}

func NewMockFollowRepository() *MockFollowRepository {
	return &MockFollowRepository{edges: make(map[followKey]bool)}
}

func (m *MockFollowRepository) Create(followerID, followeeID uint) error {
	m.edges[followKey{followerID, followeeID}] = true
	return nil
}

func (m *MockFollowRepository) Delete(followerID, followeeID uint) (int64, error) {
	key := followKey{followerID, followeeID}
	if m.edges[key] {
		delete(m.edges, key)
		return 1, nil
	}
	return 0, nil
}

func (m *MockFollowRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	return m.edges[followKey{followerID, followeeID}], nil
}

func (m *MockFollowRepository) ListFollowers(userID uint) ([]models.User, error) {
	var out []models.User
	for key := range m.edges {
		if key.followeeID == userID {
			out = append(out, models.User{ID: key.followerID})
		}
	}
	return out, nil
}

func (m *MockFollowRepository) ListFollowing(userID uint) ([]models.User, error) {
	var out []models.User
	for key := range m.edges {
		if key.followerID == userID {
			out = append(out, models.User{ID: key.followeeID})
		}
	}
	return out, nil
}
