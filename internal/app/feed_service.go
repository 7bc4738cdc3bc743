package app

import (
	"musicwebsite/internal/model"
	"musicwebsite/internal/repository"
)

type FeedService struct {
	postRepo *repository.PostRepository
}

func NewFeedService(postRepo *repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// ListPosts returns the whole feed, newest first.
func (s *FeedService) ListPosts() ([]model.Post, error) {
	return s.postRepo.ListAll()
}
