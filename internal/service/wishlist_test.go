package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_ToggleTwiceRestoresMembership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	svc := NewWishlistService(fx.store)

	added, name, err := svc.Toggle(ctx, fx.user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Skyline GT-R", name)

	list, err := svc.List(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Skyline GT-R"}, names(list))

	added, _, err = svc.Toggle(ctx, fx.user.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, added)

	list, err = svc.List(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWishlistService_IsPerUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	svc := NewWishlistService(fx.store)

	_, _, err := svc.Toggle(ctx, fx.user.ID, p.ID)
	require.NoError(t, err)

	added, _, err := svc.Toggle(ctx, fx.other.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, added, "other user's wishlist is independent")
}

func TestWishlistService_MissingProduct(t *testing.T) {
	fx := newFixture(t)

	_, _, err := NewWishlistService(fx.store).Toggle(context.Background(), fx.user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
