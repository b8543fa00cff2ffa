package service

import (
	"context"
	"fmt"

	"gostay/internal/models"
)

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByHotel(ctx context.Context, hotelSlug string) ([]models.Review, error)
}

type ReviewService struct {
	reviews reviewStore
}

func NewReviewService(reviews reviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Create inserts a review, one per user per hotel
func (s *ReviewService) Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	review := &models.Review{
		UserID:    userID,
		HotelSlug: req.HotelSlug,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByHotel(ctx context.Context, hotelSlug string) ([]models.Review, error) {
	reviews, err := s.reviews.ListByHotel(ctx, hotelSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
