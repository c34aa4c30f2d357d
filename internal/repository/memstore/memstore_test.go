package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/route66/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FailOnReleasesLock(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("connection reset")
	s.FailOn("CreateBrand", boom)

	_, err := s.CreateBrand(ctx, repository.CreateBrandParams{Name: "Hot Wheels", Slug: "hot-wheels"})
	require.ErrorIs(t, err, boom)

	brands, err := s.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)
	assert.Zero(t, s.Transactions())
}

func TestStore_DuplicateSlugIsUniqueViolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateBrand(ctx, repository.CreateBrandParams{Name: "Hot Wheels", Slug: "hot-wheels"})
	require.NoError(t, err)
	_, err = s.CreateBrand(ctx, repository.CreateBrandParams{Name: "Hot Wheels II", Slug: "hot-wheels"})
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestStore_ExecTxRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("abort")

	err := s.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.CreateBrand(ctx, repository.CreateBrandParams{Name: "Tomica", Slug: "tomica"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	brands, err := s.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)

	require.NoError(t, s.ExecTx(ctx, func(q repository.Querier) error {
		_, err := q.CreateBrand(ctx, repository.CreateBrandParams{Name: "Tomica", Slug: "tomica"})
		return err
	}))
	assert.Equal(t, 1, s.Transactions())
}
