package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

type fakeCatalog struct {
	products   map[int64]domain.Product
	stock      map[int64]int
	productErr error
	stockErr   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int64]domain.Product{},
		stock:    map[int64]int{},
	}
}

func (f *fakeCatalog) withProduct(id int64, stock int) *fakeCatalog {
	f.products[id] = domain.Product{
		ID:    id,
		Title: "product",
		Price: decimal.NewFromInt(100),
	}
	f.stock[id] = stock
	return f
}

func (f *fakeCatalog) FetchProduct(_ context.Context, id int64) (domain.Product, error) {
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) FetchStock(_ context.Context, id int64) (domain.Stock, error) {
	if f.stockErr != nil {
		return domain.Stock{}, f.stockErr
	}
	return domain.Stock{ProductID: id, Amount: f.stock[id]}, nil
}

type fakeStorage struct {
	items   []domain.Product
	seeded  bool
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStorage) Load(context.Context) ([]domain.Product, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if !f.seeded {
		return nil, ports.ErrNoCart
	}
	items := make([]domain.Product, len(f.items))
	copy(items, f.items)
	return items, nil
}

func (f *fakeStorage) Save(_ context.Context, items []domain.Product) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items = make([]domain.Product, len(items))
	copy(f.items, items)
	f.seeded = true
	f.saves++
	return nil
}

func (f *fakeStorage) seed(items ...domain.Product) *fakeStorage {
	f.items = items
	f.seeded = true
	return f
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, n ports.Notification) {
	r.messages = append(r.messages, n.Message)
}

func newService(t *testing.T, catalog *fakeCatalog, storage *fakeStorage, notifier *recordingNotifier) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), catalog, storage, notifier)
	require.NoError(t, err)
	return svc
}

func item(id int64, amount int) domain.Product {
	return domain.Product{
		ID:     id,
		Title:  "product",
		Price:  decimal.NewFromInt(100),
		Amount: amount,
	}
}

func TestNewService_EmptyWhenNothingPersisted(t *testing.T) {
	svc := newService(t, newFakeCatalog(), &fakeStorage{}, &recordingNotifier{})
	assert.Empty(t, svc.Cart(context.Background()))
}

func TestNewService_RestoresPersistedCart(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(1, 2), item(2, 1))
	svc := newService(t, newFakeCatalog(), storage, &recordingNotifier{})

	items := svc.Cart(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Amount)
}

func TestNewService_RejectsMalformedPersistedCart(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(1, 2), item(1, 3))
	_, err := NewService(context.Background(), newFakeCatalog(), storage, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

func TestAddProduct_NewProductGetsAmountOne(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 5)
	storage := &fakeStorage{}
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	require.NoError(t, svc.AddProduct(context.Background(), 1))

	items := svc.Cart(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 1, items[0].Amount)
	assert.Equal(t, "product", items[0].Title)
	assert.Empty(t, notifier.messages)
	assert.Equal(t, items, storage.items, "persisted cart must equal in-memory cart")
}

func TestAddProduct_BumpsExistingAmount(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 5)
	storage := (&fakeStorage{}).seed(item(1, 2))
	svc := newService(t, catalog, storage, &recordingNotifier{})

	require.NoError(t, svc.AddProduct(context.Background(), 1))

	items := svc.Cart(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Amount)
}

func TestAddProduct_StockEqualToCurrentAmountStillAdmitsBump(t *testing.T) {
	// The stock gate compares against the amount already in the cart, not
	// the bumped one, so stock == current amount passes.
	catalog := newFakeCatalog().withProduct(1, 1)
	storage := (&fakeStorage{}).seed(item(1, 1))
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	require.NoError(t, svc.AddProduct(context.Background(), 1))

	items := svc.Cart(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Amount)
	assert.Empty(t, notifier.messages)
}

func TestAddProduct_StockBelowCurrentAmountIsRejected(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 0)
	storage := (&fakeStorage{}).seed(item(1, 1))
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	err := svc.AddProduct(context.Background(), 1)
	require.ErrorIs(t, err, ErrOutOfStock)

	items := svc.Cart(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Amount)
	assert.Equal(t, []string{"Requested quantity out of stock"}, notifier.messages)
}

func TestAddProduct_CatalogFetchFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.productErr = errors.New("catalog unavailable")
	storage := &fakeStorage{}
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	err := svc.AddProduct(context.Background(), 1)
	require.ErrorIs(t, err, ErrAddProductFailed)
	assert.Empty(t, svc.Cart(context.Background()))
	assert.Equal(t, []string{"Error adding product"}, notifier.messages)
}

func TestAddProduct_StockFetchFailure(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 5)
	catalog.stockErr = errors.New("stock unavailable")
	storage := (&fakeStorage{}).seed(item(1, 1))
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	err := svc.AddProduct(context.Background(), 1)
	require.ErrorIs(t, err, ErrAddProductFailed)

	items := svc.Cart(context.Background())
	assert.Equal(t, 1, items[0].Amount)
	assert.Equal(t, []string{"Error adding product"}, notifier.messages)
}

func TestAddProduct_PersistenceFailureLeavesMemoryUnchanged(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 5)
	storage := &fakeStorage{saveErr: errors.New("storage down")}
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	err := svc.AddProduct(context.Background(), 1)
	require.ErrorIs(t, err, ErrAddProductFailed)
	assert.Empty(t, svc.Cart(context.Background()))
	assert.Equal(t, []string{"Error adding product"}, notifier.messages)
}

func TestRemoveProduct_RemovesExactlyOneEntry(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(1, 1), item(2, 3), item(3, 2))
	svc := newService(t, newFakeCatalog(), storage, &recordingNotifier{})

	require.NoError(t, svc.RemoveProduct(context.Background(), 2))

	items := svc.Cart(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(3), items[1].ID)
	assert.Equal(t, items, storage.items)
}

func TestRemoveProduct_LastEntryLeavesEmptyCart(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(2, 3))
	svc := newService(t, newFakeCatalog(), storage, &recordingNotifier{})

	require.NoError(t, svc.RemoveProduct(context.Background(), 2))
	assert.Empty(t, svc.Cart(context.Background()))
	assert.Empty(t, storage.items)
}

func TestRemoveProduct_AbsentProduct(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(1, 1))
	notifier := &recordingNotifier{}
	svc := newService(t, newFakeCatalog(), storage, notifier)

	err := svc.RemoveProduct(context.Background(), 99)
	require.ErrorIs(t, err, ErrProductNotInCart)
	assert.Len(t, svc.Cart(context.Background()), 1)
	assert.Equal(t, []string{"Product is not in the cart"}, notifier.messages)
}

func TestUpdateProductAmount_NonPositiveAmountIsSilentNoop(t *testing.T) {
	storage := (&fakeStorage{}).seed(item(1, 2))
	notifier := &recordingNotifier{}
	svc := newService(t, newFakeCatalog(), storage, notifier)

	require.NoError(t, svc.UpdateProductAmount(context.Background(), 1, 0))
	require.NoError(t, svc.UpdateProductAmount(context.Background(), 1, -3))

	items := svc.Cart(context.Background())
	assert.Equal(t, 2, items[0].Amount)
	assert.Empty(t, notifier.messages)
}

func TestUpdateProductAmount_SetsExactAmount(t *testing.T) {
	catalog := newFakeCatalog().withProduct(3, 10)
	storage := (&fakeStorage{}).seed(item(3, 2), item(4, 5))
	svc := newService(t, catalog, storage, &recordingNotifier{})

	require.NoError(t, svc.UpdateProductAmount(context.Background(), 3, 7))

	items := svc.Cart(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, 7, items[0].Amount)
	assert.Equal(t, 5, items[1].Amount, "other entries must stay untouched")
	assert.Equal(t, items, storage.items)
}

func TestUpdateProductAmount_AbsentProduct(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newService(t, newFakeCatalog(), &fakeStorage{}, notifier)

	err := svc.UpdateProductAmount(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrProductNotInCart)
	assert.Equal(t, []string{"Product is not in the cart"}, notifier.messages)
}

func TestUpdateProductAmount_OutOfStock(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 3)
	storage := (&fakeStorage{}).seed(item(1, 2))
	notifier := &recordingNotifier{}
	svc := newService(t, catalog, storage, notifier)

	err := svc.UpdateProductAmount(context.Background(), 1, 4)
	require.ErrorIs(t, err, ErrOutOfStock)

	items := svc.Cart(context.Background())
	assert.Equal(t, 2, items[0].Amount)
	assert.Equal(t, []string{"Requested quantity out of stock"}, notifier.messages)
}

func TestUpdateProductAmount_StockBoundaryIsInclusive(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 4)
	storage := (&fakeStorage{}).seed(item(1, 2))
	svc := newService(t, catalog, storage, &recordingNotifier{})

	require.NoError(t, svc.UpdateProductAmount(context.Background(), 1, 4))
	assert.Equal(t, 4, svc.Cart(context.Background())[0].Amount)
}

func TestCart_SnapshotIsNotAliased(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 10)
	storage := (&fakeStorage{}).seed(item(1, 2))
	svc := newService(t, catalog, storage, &recordingNotifier{})

	before := svc.Cart(context.Background())
	require.NoError(t, svc.UpdateProductAmount(context.Background(), 1, 9))

	assert.Equal(t, 2, before[0].Amount, "earlier snapshot must not observe the update")
	assert.Equal(t, 9, svc.Cart(context.Background())[0].Amount)
}

func TestOperations_NeverProduceDuplicateEntries(t *testing.T) {
	catalog := newFakeCatalog().withProduct(1, 100).withProduct(2, 100)
	svc := newService(t, catalog, &fakeStorage{}, &recordingNotifier{})
	ctx := context.Background()

	require.NoError(t, svc.AddProduct(ctx, 1))
	require.NoError(t, svc.AddProduct(ctx, 2))
	require.NoError(t, svc.AddProduct(ctx, 1))
	require.NoError(t, svc.UpdateProductAmount(ctx, 2, 5))
	require.NoError(t, svc.AddProduct(ctx, 2))

	items := svc.Cart(ctx)
	seen := map[int64]int{}
	for _, it := range items {
		seen[it.ID]++
		assert.GreaterOrEqual(t, it.Amount, 1)
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1}, seen)
}

func TestAddProduct_ConcurrentCallsAreSerialized(t *testing.T) {
	const workers = 16

	catalog := newFakeCatalog().withProduct(1, 1000)
	storage := &fakeStorage{}
	svc := newService(t, catalog, storage, &recordingNotifier{})

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return svc.AddProduct(context.Background(), 1)
		})
	}
	require.NoError(t, g.Wait())

	items := svc.Cart(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Amount, "no add may be lost")
	assert.Equal(t, workers, storage.saves)
	assert.Equal(t, items, storage.items)
}
