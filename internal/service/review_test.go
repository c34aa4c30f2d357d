package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Submit(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	svc := NewReviewService(fx.store)

	review, err := svc.Submit(ctx, fx.user.ID, "skyline-gt-r", ReviewForm{Rating: "5", Title: " Perfect ", Body: "Rubber tires!"})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Perfect", review.Title)

	rating, err := fx.store.GetProductRating(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.ReviewCount)
}

func TestReviewService_Submit_Validation(t *testing.T) {
	fx := newFixture(t)
	fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	svc := NewReviewService(fx.store)

	tests := []struct {
		name      string
		form      ReviewForm
		wantField string
	}{
		{"rating too high", ReviewForm{Rating: "6", Title: "t", Body: "b"}, "rating"},
		{"rating zero", ReviewForm{Rating: "0", Title: "t", Body: "b"}, "rating"},
		{"rating not a number", ReviewForm{Rating: "five", Title: "t", Body: "b"}, "rating"},
		{"missing title", ReviewForm{Rating: "3", Body: "b"}, "title"},
		{"title too long", ReviewForm{Rating: "3", Title: strings.Repeat("x", 201), Body: "b"}, "title"},
		{"blank body", ReviewForm{Rating: "3", Title: "t", Body: "   "}, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), fx.user.ID, "skyline-gt-r", tt.form)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
		})
	}
}

func TestReviewService_Submit_UnknownProduct(t *testing.T) {
	fx := newFixture(t)

	_, err := NewReviewService(fx.store).Submit(context.Background(), fx.user.ID, "missing", ReviewForm{Rating: "5", Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
