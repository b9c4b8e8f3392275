package service

import (
	"errors"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/validation"
	"gorm.io/gorm"
)

type GroupService struct {
	groupRepo          repository.GroupRepositoryInterface
	groupReadStateRepo repository.GroupReadStateRepositoryInterface
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	groupReadStateRepo repository.GroupReadStateRepositoryInterface,
) *GroupService {
	return &GroupService{
		groupRepo:          groupRepo,
		groupReadStateRepo: groupReadStateRepo,
	}
}

func (s *GroupService) CreateGroup(name, description string, creatorID uint, isPublic bool) (*models.Group, error) {
	name = validation.TrimAndLimit(name, 100)
	if name == "" {
		return nil, Invalid("group name is required")
	}

	group := &models.Group{
		Name:        name,
		Description: validation.TrimAndLimit(description, 255),
		CreatorID:   creatorID,
		IsPublic:    isPublic,
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	// Creator joins as admin with a zeroed read watermark.
	if err := s.groupRepo.AddMember(group.ID, creatorID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if s.groupReadStateRepo != nil {
		_ = s.groupReadStateRepo.EnsureForMember(group.ID, creatorID)
	}

	return s.groupRepo.FindByID(group.ID)
}

func (s *GroupService) JoinGroup(groupID, userID uint) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}
	if !group.IsPublic {
		return Unauthorized("group is private")
	}

	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return Invalid("already a member of this group")
	}

	if err := s.groupRepo.AddMember(groupID, userID, models.RoleMember); err != nil {
		return err
	}
	if s.groupReadStateRepo != nil {
		_ = s.groupReadStateRepo.EnsureForMember(groupID, userID)
	}
	return nil
}

// InviteMember lets an admin add any user directly, private groups included.
func (s *GroupService) InviteMember(groupID, adminID, userID uint) error {
	isAdmin, err := s.IsAdmin(groupID, adminID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return Unauthorized("only admins can add members")
	}

	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return Invalid("already a member of this group")
	}

	if err := s.groupRepo.AddMember(groupID, userID, models.RoleMember); err != nil {
		return err
	}
	if s.groupReadStateRepo != nil {
		_ = s.groupReadStateRepo.EnsureForMember(groupID, userID)
	}
	return nil
}

// LeaveGroup removes membership and the read watermark. Group history is not
// mutated; losing the membership row is what revokes access.
func (s *GroupService) LeaveGroup(groupID, userID uint) error {
	if err := s.groupRepo.RemoveMember(groupID, userID); err != nil {
		return err
	}
	if s.groupReadStateRepo != nil {
		_ = s.groupReadStateRepo.DeleteForMember(groupID, userID)
	}
	return nil
}

func (s *GroupService) GetGroup(groupID uint) (*models.Group, error) {
	return s.groupRepo.FindByID(groupID)
}

func (s *GroupService) GetGroupMembers(groupID uint) ([]models.User, error) {
	return s.groupRepo.GetMembers(groupID)
}

func (s *GroupService) GetUserGroups(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

func (s *GroupService) SearchPublicGroups(query string, limit int) ([]models.Group, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.groupRepo.SearchPublicGroups(query, limit)
}

func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	return s.groupRepo.IsMember(groupID, userID)
}

func (s *GroupService) IsAdmin(groupID, userID uint) (bool, error) {
	role, err := s.groupRepo.GetMemberRole(groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// MarkGroupRead advances the member's monotonic watermark. Non-members are
// rejected; an out-of-order mark is absorbed by the GREATEST upsert.
func (s *GroupService) MarkGroupRead(groupID, userID, lastReadMessageID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return Unauthorized("not a member of group %d", groupID)
	}
	if s.groupReadStateRepo == nil {
		return nil
	}
	return s.groupReadStateRepo.UpsertMonotonic(groupID, userID, lastReadMessageID)
}

func (s *GroupService) GetReadState(groupID, userID uint) (*models.GroupReadState, error) {
	if s.groupReadStateRepo == nil {
		return &models.GroupReadState{GroupID: groupID, UserID: userID, LastReadMessageID: 0}, nil
	}
	state, err := s.groupReadStateRepo.Get(groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.GroupReadState{GroupID: groupID, UserID: userID, LastReadMessageID: 0}, nil
		}
		return nil, err
	}
	return state, nil
}
