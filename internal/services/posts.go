package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"lireddit/internal/models"

	"gorm.io/gorm"
)

// PostService covers the plain CRUD around posts. Points are never
// written here.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// Get loads one post with its creator. ErrNotFound when it does not exist.
func (s *PostService) Get(ctx context.Context, id uint, viewerID *uint) (*models.Post, error) {
	var post models.Post
	err := withVoteStatus(s.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("Creator").
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// Create stores a new post owned by creatorID.
func (s *PostService) Create(ctx context.Context, creatorID uint, title, text string) (*models.Post, error) {
	var creator models.User
	if err := s.db.WithContext(ctx).First(&creator, creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	post := models.Post{
		Title:     strings.TrimSpace(title),
		Text:      text,
		CreatorID: creator.ID,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	post.Creator = creator

	log.Printf("[post] user %d created post %d", creator.ID, post.ID)
	return &post, nil
}

// Update changes the title of a post owned by userID. A nil title is a
// no-op that returns (nil, nil).
func (s *PostService) Update(ctx context.Context, id, userID uint, title *string) (*models.Post, error) {
	post, err := s.Get(ctx, id, &userID)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, nil
	}
	if post.CreatorID != userID {
		return nil, ErrForbidden
	}

	post.Title = strings.TrimSpace(*title)
	if err := s.db.WithContext(ctx).Model(post).Update("title", post.Title).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post owned by userID together with its updoots. It
// reports false when the post did not exist.
func (s *PostService) Delete(ctx context.Context, id, userID uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "creator_id").First(&post, id).Error; err != nil {
			return notFound(err)
		}
		if post.CreatorID != userID {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Updoot{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return deleted, err
}
