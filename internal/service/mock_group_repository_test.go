package service

import (
	"strings"

	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

// MockGroupRepository is a mock implementation for tests.
// It implements repository.GroupRepositoryInterface.
type MockGroupRepository struct {
	groups      map[uint]*models.Group
	memberships map[uint]map[uint]models.GroupRole
	nextID      uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:      make(map[uint]*models.Group),
		memberships: make(map[uint]map[uint]models.GroupRole),
		nextID:      1,
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) AddMember(groupID, userID uint, role models.GroupRole) error {
	if _, ok := m.memberships[groupID]; !ok {
		m.memberships[groupID] = make(map[uint]models.GroupRole)
	}
	m.memberships[groupID][userID] = role
	return nil
}

func (m *MockGroupRepository) RemoveMember(groupID, userID uint) error {
	if gm, ok := m.memberships[groupID]; ok {
		delete(gm, userID)
	}
	return nil
}

func (m *MockGroupRepository) GetMembers(groupID uint) ([]models.User, error) {
	var out []models.User
	for userID := range m.memberships[groupID] {
		out = append(out, models.User{ID: userID})
	}
	return out, nil
}

func (m *MockGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	_, ok := m.memberships[groupID][userID]
	return ok, nil
}

func (m *MockGroupRepository) GetMemberRole(groupID, userID uint) (models.GroupRole, error) {
	if role, ok := m.memberships[groupID][userID]; ok {
		return role, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var out []models.Group
	for groupID, members := range m.memberships {
		if _, ok := members[userID]; ok {
			if g, found := m.groups[groupID]; found {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}

func (m *MockGroupRepository) SearchPublicGroups(query string, limit int) ([]models.Group, error) {
	var out []models.Group
	for _, g := range m.groups {
		if !g.IsPublic {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(query)) {
			continue
		}
		out = append(out, *g)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
