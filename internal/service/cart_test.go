package service_test

import (
	"context"
	"testing"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*fakeCartRepo, service.CartService) {
	products := newFakeProductRepo(
		&models.Product{ID: 1, Name: "A", Price: models.MustMoney("10.00"), Stock: 5, ImageURL: "/a.png"},
		&models.Product{ID: 2, Name: "B", Price: models.MustMoney("5.00"), Stock: 1},
	)
	carts := newFakeCartRepo(products)
	return carts, service.NewCartService(discardLogger(), carts, products)
}

func TestCartService_GetCart_CreatesOpenCart(t *testing.T) {
	carts, svc := newCartFixture()

	view, err := svc.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.NotZero(t, view.CartID)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Total.String())

	// повторный вызов возвращает ту же корзину
	again, err := svc.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, view.CartID, again.CartID)
	assert.Len(t, carts.carts, 1)
}

func TestCartService_AddItem(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].ProductID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "/a.png", view.Items[0].ImageURL)

	// повторное добавление увеличивает количество
	view, err = svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)

	view, err = svc.AddItem(ctx, 7, 2, 1)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, "35.00", view.Total.String())
}

func TestCartService_AddItem_Invalid(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.AddItem(ctx, 7, 0, 1)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.AddItem(ctx, 7, 99, 1)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)
	itemID := view.Items[0].CartItemID

	view, err = svc.UpdateItem(ctx, 7, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.Equal(t, "40.00", view.Total.String())

	// количество 0 удаляет позицию
	view, err = svc.UpdateItem(ctx, 7, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.RemoveItem(ctx, 7, itemID)
	assert.ErrorIs(t, err, storage.ErrCartItemNotFound)
}

func TestCartService_ItemOfAnotherUser(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, 8, view.Items[0].CartItemID, 3)
	assert.ErrorIs(t, err, storage.ErrCartItemNotFound)
}

func TestCartService_AddItem_CartConvertedConcurrently(t *testing.T) {
	carts, svc := newCartFixture()
	ctx := context.Background()

	first, err := svc.GetCart(ctx, 7)
	require.NoError(t, err)

	// оформление успело закрыть корзину между поиском и записью
	carts.beforeAdd = func(cartID int64) {
		carts.carts[cartID].Status = models.CartStatusConverted
	}

	view, err := svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.CartID, view.CartID)
	require.Len(t, view.Items, 1)
	assert.Empty(t, carts.items[first.CartID])
}
