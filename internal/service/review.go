package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
)

// ReviewForm is a product review as submitted. Rating is kept as the raw
// form value so a non-numeric rating reports a field error.
type ReviewForm struct {
	Rating string `form:"rating" validate:"required,oneof=1 2 3 4 5"`
	Title  string `form:"title" validate:"required,max=200"`
	Body   string `form:"body" validate:"required"`
}

// ReviewService records product reviews
type ReviewService interface {
	Submit(ctx context.Context, userID int64, productSlug string, f ReviewForm) (*Review, error)
}

type reviewService struct {
	repo repository.Querier
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(repo repository.Querier) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) Submit(ctx context.Context, userID int64, productSlug string, f ReviewForm) (*Review, error) {
	const op = "review.Submit"

	product, err := s.repo.GetProductBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	f.Rating = strings.TrimSpace(f.Rating)
	f.Title = strings.TrimSpace(f.Title)
	f.Body = strings.TrimSpace(f.Body)
	if err := form.Validate(op, f); err != nil {
		return nil, err
	}
	rating, _ := strconv.Atoi(f.Rating)

	row, err := s.repo.CreateReview(ctx, repository.CreateReviewParams{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    int32(rating),
		Title:     f.Title,
		Body:      f.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.ReviewsSubmitted.WithLabelValues(f.Rating).Inc()
	}

	return &Review{
		ID:        row.ID,
		Rating:    rating,
		Title:     row.Title,
		Body:      row.Body,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}
