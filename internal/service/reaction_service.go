package service

import (
	"errors"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/validation"
	"gorm.io/gorm"
)

// ReactionService is the reaction/comment ledger. Reacting is an upsert per
// (post, user); counts are always aggregated fresh so the optimistic client
// can reconcile against the true value on every response.
type ReactionService struct {
	reactionRepo repository.ReactionRepositoryInterface
	commentRepo  repository.CommentRepositoryInterface
	postRepo     repository.PostRepositoryInterface
}

func NewReactionService(
	reactionRepo repository.ReactionRepositoryInterface,
	commentRepo repository.CommentRepositoryInterface,
	postRepo repository.PostRepositoryInterface,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		commentRepo:  commentRepo,
		postRepo:     postRepo,
	}
}

// React records the user's current reaction to a post, replacing any earlier
// one of a different type, and returns the fresh counts.
func (s *ReactionService) React(postID, userID uint, reactionType models.ReactionType) (models.ReactionCounts, error) {
	if !reactionType.Valid() {
		return models.ReactionCounts{}, Invalid("unknown reaction type %q", reactionType)
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReactionCounts{}, Invalid("post %d does not exist", postID)
		}
		return models.ReactionCounts{}, err
	}

	if err := s.reactionRepo.Upsert(postID, userID, reactionType); err != nil {
		return models.ReactionCounts{}, err
	}
	return s.reactionRepo.Counts(postID)
}

// Unreact removes the user's reaction if present. Removing a reaction that
// does not exist is not an error.
func (s *ReactionService) Unreact(postID, userID uint) (models.ReactionCounts, error) {
	if _, err := s.reactionRepo.Delete(postID, userID); err != nil {
		return models.ReactionCounts{}, err
	}
	return s.reactionRepo.Counts(postID)
}

// GetUserReaction reports the user's current reaction on a post, or nil.
func (s *ReactionService) GetUserReaction(postID, userID uint) (*models.Reaction, error) {
	reaction, err := s.reactionRepo.Get(postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reaction, nil
}

func (s *ReactionService) Counts(postID uint) (models.ReactionCounts, error) {
	return s.reactionRepo.Counts(postID)
}

// Comment appends a comment; empty-after-trim content is a validation
// failure and nothing is written.
func (s *ReactionService) Comment(postID, userID uint, content string) (*models.Comment, error) {
	content = validation.TrimAndLimit(content, validation.MaxCommentLength())
	if content == "" {
		return nil, Invalid("comment content is required")
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Invalid("post %d does not exist", postID)
		}
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(comment.ID)
}

func (s *ReactionService) ListComments(postID uint, limit, offset int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.commentRepo.ListByPost(postID, limit, offset)
}
