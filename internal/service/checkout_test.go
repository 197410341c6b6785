package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/metrics"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	mock     sqlmock.Sqlmock
	products *fakeProductRepo
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
	recorder *fakeRecorder
	svc      service.CheckoutService
}

// newCheckoutFixture товар A (id 1, 10.00) и B (id 2, 5.00) с заданными остатками
func newCheckoutFixture(t *testing.T, stockA, stockB int) *checkoutFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	products := newFakeProductRepo(
		&models.Product{ID: 1, Name: "A", Price: models.MustMoney("10.00"), Stock: stockA},
		&models.Product{ID: 2, Name: "B", Price: models.MustMoney("5.00"), Stock: stockB},
	)
	carts := newFakeCartRepo(products)
	orders := newFakeOrderRepo()
	recorder := &fakeRecorder{}

	return &checkoutFixture{
		mock:     mock,
		products: products,
		carts:    carts,
		orders:   orders,
		recorder: recorder,
		svc:      service.NewCheckoutService(discardLogger(), db, carts, products, orders, recorder),
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	cart := f.carts.withOpenCart(1, [2]int64{1, 2}, [2]int64{2, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Checkout(context.Background(), 1, "1 Main St", "card")
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.OrderID)
	assert.Equal(t, "25.00", res.TotalAmount.String())
	assert.Equal(t, models.OrderStatusPlaced, res.Status)

	assert.Equal(t, 3, f.products.products[1].Stock)
	assert.Equal(t, 0, f.products.products[2].Stock)

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, int64(1), order.UserID)
	assert.Equal(t, "1 Main St", order.DeliveryAddress)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, "25.00", order.TotalAmount.String())

	// снимок цены на момент оформления
	require.Len(t, f.orders.items, 2)
	assert.Equal(t, int64(1), f.orders.items[0].ProductID)
	assert.Equal(t, 2, f.orders.items[0].Quantity)
	assert.Equal(t, "10.00", f.orders.items[0].Price.String())
	assert.Equal(t, int64(2), f.orders.items[1].ProductID)
	assert.Equal(t, "5.00", f.orders.items[1].Price.String())

	assert.Equal(t, models.CartStatusConverted, f.carts.carts[cart.ID].Status)
	assert.Empty(t, f.carts.items[cart.ID])

	assert.Equal(t, []string{metrics.OutcomePlaced}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t, 5, 0)
	cart := f.carts.withOpenCart(1, [2]int64{1, 2}, [2]int64{2, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	res, err := f.svc.Checkout(context.Background(), 1, "1 Main St", "card")
	require.Error(t, err)
	assert.Nil(t, res)

	var stockErr *service.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, "B", stockErr.ProductName)
	assert.Equal(t, "insufficient stock for B", stockErr.Error())

	// остатки не тронуты, заказа нет, корзина осталась OPEN
	assert.Equal(t, 5, f.products.products[1].Stock)
	assert.Equal(t, 0, f.products.products[2].Stock)
	assert.Empty(t, f.products.decremented)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, models.CartStatusOpen, f.carts.carts[cart.ID].Status)
	assert.Len(t, f.carts.items[cart.ID], 2)

	assert.Equal(t, []string{metrics.OutcomeInsufficientStock}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_ExactStockSucceeds(t *testing.T) {
	f := newCheckoutFixture(t, 2, 1)
	f.carts.withOpenCart(1, [2]int64{1, 2}, [2]int64{2, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "cash")
	require.NoError(t, err)
	assert.Equal(t, 0, f.products.products[1].Stock)
	assert.Equal(t, 0, f.products.products[2].Stock)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, []string{metrics.OutcomeEmptyCart}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_NoOpenCart(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	// корзина не создается
	assert.Empty(t, f.carts.carts)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_ResubmitAfterSuccess(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 2}, [2]int64{2, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), 1, "addr", "card")
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	assert.Len(t, f.orders.orders, 1)
	assert.Equal(t, 3, f.products.products[1].Stock)
	assert.Equal(t, 0, f.products.products[2].Stock)
	assert.Equal(t, []string{metrics.OutcomePlaced, metrics.OutcomeEmptyCart}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_InvalidInputOpensNoTransaction(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})

	cases := []struct {
		name, address, payment string
	}{
		{"empty address", "", "card"},
		{"blank address", "   ", "card"},
		{"empty payment", "addr", ""},
		{"both empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Checkout(context.Background(), 1, tc.address, tc.payment)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}

	// ни одного Begin
	assert.NoError(t, f.mock.ExpectationsWereMet())
	assert.Equal(t, 5, f.products.products[1].Stock)
	for _, o := range f.recorder.outcomes {
		assert.Equal(t, metrics.OutcomeInvalid, o)
	}
}

func TestCheckout_TrimsInput(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{2, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.Checkout(context.Background(), 1, "  addr  ", " card ")
	require.NoError(t, err)
	assert.Equal(t, "addr", f.orders.orders[0].DeliveryAddress)
	assert.Equal(t, "card", f.orders.orders[0].PaymentMethod)
}

func TestCheckout_FailureAfterDecrementRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})
	f.orders.createErr = errors.New("insert failed")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrEmptyCart)
	assert.Equal(t, []string{metrics.OutcomeError}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_StockConflictRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})
	f.products.decrementErr = storage.ErrStockConflict

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	assert.ErrorIs(t, err, storage.ErrStockConflict)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, []string{metrics.OutcomeError}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_MarkConvertedFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})
	f.carts.markErr = errors.New("connection reset")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	assert.Error(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_CommitFailure(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	res, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.Equal(t, []string{metrics.OutcomeError}, f.recorder.outcomes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckout_BeginFailure(t *testing.T) {
	f := newCheckoutFixture(t, 5, 1)
	f.carts.withOpenCart(1, [2]int64{1, 1})

	f.mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := f.svc.Checkout(context.Background(), 1, "addr", "card")
	require.Error(t, err)
	assert.Equal(t, 5, f.products.products[1].Stock)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

type panickingOrderRepo struct {
	*fakeOrderRepo
}

func (p panickingOrderRepo) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item models.OrderItem) error {
	panic("boom")
}

func TestCheckout_PanicRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	products := newFakeProductRepo(&models.Product{ID: 1, Name: "A", Price: models.MustMoney("10.00"), Stock: 5})
	carts := newFakeCartRepo(products)
	carts.withOpenCart(1, [2]int64{1, 1})
	svc := service.NewCheckoutService(discardLogger(), db, carts, products, panickingOrderRepo{newFakeOrderRepo()}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_, _ = svc.Checkout(context.Background(), 1, "addr", "card")
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
