package service

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepositoryInterface
	followRepo repository.FollowRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface, followRepo repository.FollowRepositoryInterface) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		user.FullName = validation.TrimAndLimit(*input.FullName, 100)
	}
	if input.Bio != nil {
		user.Bio = validation.TrimAndLimit(*input.Bio, 500)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchUsers(query, limit)
}

// Follow adds a directed edge. Self-follow is forbidden, the same policy as
// self-messaging. Following twice is a no-op.
func (s *UserService) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return Invalid("cannot follow yourself")
	}
	if _, err := s.userRepo.FindByID(followeeID); err != nil {
		return err
	}
	return s.followRepo.Create(followerID, followeeID)
}

func (s *UserService) Unfollow(followerID, followeeID uint) error {
	_, err := s.followRepo.Delete(followerID, followeeID)
	return err
}

func (s *UserService) IsFollowing(followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(followerID, followeeID)
}

func (s *UserService) GetFollowers(userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowers(userID)
}

func (s *UserService) GetFollowing(userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowing(userID)
}
