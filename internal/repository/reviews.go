package repository

import (
	"context"
	"errors"
	"fmt"

	"gostay/internal/database"
	apperrors "gostay/internal/errors"
	"gostay/internal/models"

	"github.com/lib/pq"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, hotel_slug, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		review.UserID,
		review.HotelSlug,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) ListByHotel(ctx context.Context, hotelSlug string) ([]models.Review, error) {
	query := `
		SELECT id, user_id, hotel_slug, rating, comment, created_at
		FROM reviews
		WHERE hotel_slug = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, hotelSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.HotelSlug,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
