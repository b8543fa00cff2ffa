package service

import (
	"context"
	"fmt"

	apperrors "gostay/internal/errors"
	"gostay/internal/models"
)

type hotelIndex interface {
	Search(ctx context.Context, query, city string, minPrice, maxPrice int64, page, pageSize int) ([]models.Hotel, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Hotel, error)
	IndexHotel(ctx context.Context, hotel *models.Hotel) error
}

type HotelService struct {
	index hotelIndex
}

func NewHotelService(index hotelIndex) *HotelService {
	return &HotelService{index: index}
}

func (s *HotelService) Search(ctx context.Context, query, city string, minPrice, maxPrice int64, page, pageSize int) (*models.HotelSearchResponse, error) {
	hotels, total, err := s.index.Search(ctx, query, city, minPrice, maxPrice, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}

	return &models.HotelSearchResponse{
		Total:  total,
		Hotels: hotels,
	}, nil
}

func (s *HotelService) GetBySlug(ctx context.Context, slug string) (*models.Hotel, error) {
	hotel, err := s.index.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("hotel %s: %w", slug, apperrors.ErrNotFound)
	}
	return hotel, nil
}

// Upsert writes a hotel document to the index, used by the seeder and admin
func (s *HotelService) Upsert(ctx context.Context, hotel *models.Hotel) error {
	if err := s.index.IndexHotel(ctx, hotel); err != nil {
		return fmt.Errorf("failed to index hotel: %w", err)
	}
	return nil
}
