package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users  map[string]*models.User // ключ - username
	logins []int64
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, userID int64) error {
	f.logins = append(f.logins, userID)
	return nil
}

func (f *fakeUserRepo) UpdateDefaultAddress(ctx context.Context, userID int64, address *string) error {
	u, err := f.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.DefaultAddress = address
	return nil
}

type fakeProductRepo struct {
	products     map[int64]*models.Product
	decremented  map[int64]int
	decrementErr error
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[int64]*models.Product), decremented: make(map[int64]int)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	res := []*models.Product{}
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	p, ok := f.products[productID]
	if !ok || p.Stock < quantity {
		return storage.ErrStockConflict
	}
	p.Stock -= quantity
	f.decremented[productID] += quantity
	return nil
}

type fakeCartItem struct {
	id        int64
	productID int64
	quantity  int
}

type fakeCartRepo struct {
	products *fakeProductRepo
	carts    map[int64]*models.Cart
	items    map[int64][]*fakeCartItem // ключ: cartID
	nextID   int64

	markErr error
	// beforeAdd срабатывает один раз перед AddItem
	beforeAdd func(cartID int64)
}

var _ storage.CartStorage = (*fakeCartRepo)(nil)

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{
		products: products,
		carts:    make(map[int64]*models.Cart),
		items:    make(map[int64][]*fakeCartItem),
	}
}

// withOpenCart заводит OPEN корзину с позициями (productID -> quantity)
func (f *fakeCartRepo) withOpenCart(userID int64, lines ...[2]int64) *models.Cart {
	cart, _ := f.CreateCart(context.Background(), userID)
	for _, l := range lines {
		_ = f.AddItem(context.Background(), cart.ID, l[0], int(l[1]))
	}
	return cart
}

func (f *fakeCartRepo) FindOpenCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var found *models.Cart
	for _, c := range f.carts {
		if c.UserID == userID && c.Status == models.CartStatusOpen {
			if found == nil || c.ID > found.ID {
				found = c
			}
		}
	}
	if found == nil {
		return nil, storage.ErrCartNotFound
	}
	return found, nil
}

func (f *fakeCartRepo) CreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	f.nextID++
	c := &models.Cart{ID: f.nextID, UserID: userID, Status: models.CartStatusOpen}
	f.carts[c.ID] = c
	return c, nil
}

func (f *fakeCartRepo) ListCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	for _, it := range f.items[cartID] {
		p := f.products.products[it.productID]
		lines = append(lines, models.CartLine{
			CartItemID: it.id,
			Quantity:   it.quantity,
			ProductID:  p.ID,
			Name:       p.Name,
			Price:      p.Price,
			ImageURL:   p.ImageURL,
			Stock:      p.Stock,
		})
	}
	return lines, nil
}

func (f *fakeCartRepo) AddItem(ctx context.Context, cartID, productID int64, quantity int) error {
	if f.beforeAdd != nil {
		hook := f.beforeAdd
		f.beforeAdd = nil
		hook(cartID)
	}
	if c, ok := f.carts[cartID]; !ok || c.Status != models.CartStatusOpen {
		return storage.ErrCartNotFound
	}
	for _, it := range f.items[cartID] {
		if it.productID == productID {
			it.quantity += quantity
			return nil
		}
	}
	f.nextID++
	f.items[cartID] = append(f.items[cartID], &fakeCartItem{id: f.nextID, productID: productID, quantity: quantity})
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	for _, it := range f.items[cartID] {
		if it.id == itemID {
			it.quantity = quantity
			return nil
		}
	}
	return storage.ErrCartItemNotFound
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	items := f.items[cartID]
	for i, it := range items {
		if it.id == itemID {
			f.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return storage.ErrCartItemNotFound
}

func (f *fakeCartRepo) LockOpenCartTx(ctx context.Context, tx *sql.Tx, userID int64) (*models.Cart, error) {
	return f.FindOpenCart(ctx, userID)
}

func (f *fakeCartRepo) LockCartLinesTx(ctx context.Context, tx *sql.Tx, cartID int64) ([]models.CartLine, error) {
	lines, _ := f.ListCartLines(ctx, cartID)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (f *fakeCartRepo) MarkConvertedTx(ctx context.Context, tx *sql.Tx, cartID int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	c, ok := f.carts[cartID]
	if !ok || c.Status != models.CartStatusOpen {
		return storage.ErrCartNotFound
	}
	c.Status = models.CartStatusConverted
	return nil
}

func (f *fakeCartRepo) ClearItemsTx(ctx context.Context, tx *sql.Tx, cartID int64) error {
	delete(f.items, cartID)
	return nil
}

type fakeOrderRepo struct {
	orders    []*models.Order
	items     []models.OrderItem
	createErr error
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (f *fakeOrderRepo) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	o := *order
	o.ID = int64(len(f.orders) + 1)
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, &o)
	return o.ID, nil
}

func (f *fakeOrderRepo) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item models.OrderItem) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	res := []*models.Order{}
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			res = append(res, f.orders[i])
		}
	}
	return res, nil
}

func (f *fakeOrderRepo) ListOrdersFiltered(ctx context.Context, userID int64, filter models.OrderFilter) ([]*models.Order, error) {
	all, _ := f.GetOrdersByUserID(ctx, userID)
	res := []*models.Order{}
	for _, o := range all {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.From != nil && o.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.CreatedAt.After(*filter.To) {
			continue
		}
		res = append(res, o)
	}
	return res, nil
}

func (f *fakeOrderRepo) GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.UserID == userID {
			res := *o
			for _, it := range f.items {
				if it.OrderID == o.ID {
					res.Items = append(res.Items, it)
				}
			}
			return &res, nil
		}
	}
	return nil, storage.ErrOrderNotFound
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) ObserveCheckout(outcome string, d time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

type fakeWishlistRepo struct {
	products *fakeProductRepo
	items    map[int64][]int64 // userID -> productID, новые в конце
}

var _ storage.WishlistStorage = (*fakeWishlistRepo)(nil)

func newFakeWishlistRepo(products *fakeProductRepo) *fakeWishlistRepo {
	return &fakeWishlistRepo{products: products, items: make(map[int64][]int64)}
}

func (f *fakeWishlistRepo) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	res := []models.WishlistItem{}
	ids := f.items[userID]
	for i := len(ids) - 1; i >= 0; i-- {
		p := f.products.products[ids[i]]
		res = append(res, models.WishlistItem{WishlistItemID: int64(i + 1), ProductID: p.ID, Name: p.Name, Price: p.Price})
	}
	return res, nil
}

func (f *fakeWishlistRepo) AddToWishlist(ctx context.Context, userID, productID int64) error {
	for _, id := range f.items[userID] {
		if id == productID {
			return nil
		}
	}
	f.items[userID] = append(f.items[userID], productID)
	return nil
}

func (f *fakeWishlistRepo) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	ids := f.items[userID]
	for i, id := range ids {
		if id == productID {
			f.items[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

type fakeReviewRepo struct {
	reviews []*models.Review
}

var _ storage.ReviewStorage = (*fakeReviewRepo)(nil)

func (f *fakeReviewRepo) ListProductReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	res := []models.Review{}
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if f.reviews[i].ProductID == productID {
			res = append(res, *f.reviews[i])
		}
	}
	return res, nil
}

func (f *fakeReviewRepo) AddReview(ctx context.Context, review *models.Review) (int64, error) {
	r := *review
	r.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, &r)
	return r.ID, nil
}

type fakeAdminRepo struct {
	metrics     *models.DashboardMetrics
	buckets     []models.LoginBucket
	activeSince time.Time
	trendSince  time.Time
	topLimit    int
}

var _ storage.AdminStorage = (*fakeAdminRepo)(nil)

func (f *fakeAdminRepo) DashboardMetrics(ctx context.Context, activeSince time.Time, topLimit int) (*models.DashboardMetrics, error) {
	f.activeSince = activeSince
	f.topLimit = topLimit
	return f.metrics, nil
}

func (f *fakeAdminRepo) LoginsPerHour(ctx context.Context, since time.Time) ([]models.LoginBucket, error) {
	f.trendSince = since
	return f.buckets, nil
}
