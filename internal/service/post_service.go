package service

import (
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/validation"
)

type PostService struct {
	postRepo     repository.PostRepositoryInterface
	reactionRepo repository.ReactionRepositoryInterface
	commentRepo  repository.CommentRepositoryInterface
}

func NewPostService(
	postRepo repository.PostRepositoryInterface,
	reactionRepo repository.ReactionRepositoryInterface,
	commentRepo repository.CommentRepositoryInterface,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		commentRepo:  commentRepo,
	}
}

type CreatePostInput struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	CategoryIDs []uint `json:"category_ids"`
}

func (s *PostService) CreatePost(authorID uint, input CreatePostInput) (*models.Post, error) {
	title := validation.TrimAndLimit(input.Title, validation.MaxPostTitleLength())
	body := validation.TrimAndLimit(input.Body, validation.MaxPostBodyLength())
	if title == "" {
		return nil, Invalid("post title is required")
	}
	if body == "" {
		return nil, Invalid("post body is required")
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
	}

	if len(input.CategoryIDs) > 0 {
		categories, err := s.postRepo.FindCategories(input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if len(categories) != len(input.CategoryIDs) {
			return nil, Invalid("one or more categories do not exist")
		}
		post.Categories = categories
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return s.postRepo.FindByID(post.ID)
}

func (s *PostService) GetPost(id uint) (*models.Post, error) {
	return s.postRepo.FindByID(id)
}

// AttachImage records the object-store key of the post's image. Only the
// author may attach.
func (s *PostService) AttachImage(postID, userID uint, imageKey string) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return Unauthorized("only the author can attach an image")
	}
	post.ImageKey = imageKey
	return s.postRepo.Update(post)
}

// FeedCounts bundles the fresh aggregates for one feed entry.
type FeedCounts struct {
	Reactions models.ReactionCounts
	Comments  int64
}

func (s *PostService) GetFeed(categoryID *uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListFeed(categoryID, limit, offset)
}

func (s *PostService) GetPostsByAuthor(authorID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.postRepo.ListByAuthor(authorID, limit, offset)
}

// CountsFor aggregates reaction and comment counts for a post, fresh on
// every call.
func (s *PostService) CountsFor(postID uint) (FeedCounts, error) {
	reactions, err := s.reactionRepo.Counts(postID)
	if err != nil {
		return FeedCounts{}, err
	}
	comments, err := s.commentRepo.CountByPost(postID)
	if err != nil {
		return FeedCounts{}, err
	}
	return FeedCounts{Reactions: reactions, Comments: comments}, nil
}

func (s *PostService) CreateCategory(name string) (*models.Category, error) {
	name = validation.TrimAndLimit(name, 50)
	if name == "" {
		return nil, Invalid("category name is required")
	}
	category := &models.Category{Name: name}
	if err := s.postRepo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *PostService) ListCategories() ([]models.Category, error) {
	return s.postRepo.ListCategories()
}
