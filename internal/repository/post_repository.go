package repository

import (
	"fmt"

	"gorm.io/gorm"

	"musicwebsite/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create persists a post arriving from the ingest queue.
func (r *PostRepository) Create(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

// ListAll returns every post, newest first.
func (r *PostRepository) ListAll() ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Order("timestamp DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, nil
}
