package fragment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"frag-golang/internal/config"
	"frag-golang/internal/storage"
)

type MockFragmentStorage struct {
	mock.Mock
}

func (m *MockFragmentStorage) GetOrder(ctx context.Context, orderNum string) (*storage.Order, error) {
	args := m.Called(ctx, orderNum)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	order, ok := args.Get(0).(*storage.Order)
	if !ok {
		return nil, fmt.Errorf("expected *storage.Order, got %T", args.Get(0))
	}

	return order, args.Error(1)
}

func (m *MockFragmentStorage) GetOrderProducts(ctx context.Context, orderID int64) ([]*storage.OrderProduct, error) {
	args := m.Called(ctx, orderID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	products, ok := args.Get(0).([]*storage.OrderProduct)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.OrderProduct, got %T", args.Get(0))
	}

	return products, args.Error(1)
}

func (m *MockFragmentStorage) GetOrderFragments(ctx context.Context, orderID int64) ([]*storage.Fragment, error) {
	args := m.Called(ctx, orderID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	fragments, ok := args.Get(0).([]*storage.Fragment)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.Fragment, got %T", args.Get(0))
	}

	return fragments, args.Error(1)
}

func (m *MockFragmentStorage) ReplaceOrderFragments(ctx context.Context, orderID int64, fragments []*storage.Fragment) error {
	args := m.Called(ctx, orderID, fragments)
	return args.Error(0)
}

func newTestService(t *testing.T, mockStorage *MockFragmentStorage, policy string) *Service {
	t.Helper()

	s := NewService(mockStorage, policy)
	s.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSaveFragments_Success(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	order := &storage.Order{ID: 1, OrderNum: "Q6-100", Customer: "ООО Заказчик"}
	product := testProduct(100, 500)
	otherFragment := &storage.Fragment{ID: "1-1-7", OrderID: 1, ProductID: 11, Quantity: 2, Date: "2026-03-09"}

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(order, nil)
	mockStorage.On("GetOrderProducts", mock.Anything, int64(1)).Return([]*storage.OrderProduct{&product}, nil)
	mockStorage.On("GetOrderFragments", mock.Anything, int64(1)).Return([]*storage.Fragment{otherFragment}, nil)
	mockStorage.On("ReplaceOrderFragments", mock.Anything, int64(1), mock.Anything).Return(nil)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	drafts := []storage.Fragment{
		{Quantity: 40, Date: "2026-03-02"},
		{Quantity: 60, Date: "2026-03-03"},
	}

	final, err := service.SaveFragments(context.Background(), "Q6-100", 10, drafts)

	require.NoError(t, err)
	require.Len(t, final, 3)

	// Чужая партия сохранилась, стоимости пересчитаны
	assert.Equal(t, "1-1-7", final[0].ID)
	assert.Equal(t, "200.00", final[1].Value.StringFixed(2))
	assert.Equal(t, "300.00", final[2].Value.StringFixed(2))

	mockStorage.AssertCalled(t, "ReplaceOrderFragments", mock.Anything, int64(1), mock.Anything)
}

func TestSaveFragments_ValidationFailureSkipsStorage(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	order := &storage.Order{ID: 1, OrderNum: "Q6-100"}
	product := testProduct(10, 100)

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(order, nil)
	mockStorage.On("GetOrderProducts", mock.Anything, int64(1)).Return([]*storage.OrderProduct{&product}, nil)
	mockStorage.On("GetOrderFragments", mock.Anything, int64(1)).Return([]*storage.Fragment{}, nil)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	drafts := []storage.Fragment{{Quantity: 15, Date: "2026-03-02"}}

	_, err := service.SaveFragments(context.Background(), "Q6-100", 10, drafts)

	assert.ErrorIs(t, err, ErrExcessTotal)
	// Частичного сохранения нет
	mockStorage.AssertNotCalled(t, "ReplaceOrderFragments", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveFragments_UnknownProduct(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	order := &storage.Order{ID: 1, OrderNum: "Q6-100"}
	product := testProduct(10, 100)

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(order, nil)
	mockStorage.On("GetOrderProducts", mock.Anything, int64(1)).Return([]*storage.OrderProduct{&product}, nil)
	mockStorage.On("GetOrderFragments", mock.Anything, int64(1)).Return([]*storage.Fragment{}, nil)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	_, err := service.SaveFragments(context.Background(), "Q6-100", 999, nil)

	assert.ErrorIs(t, err, ErrUnknownProduct)
	mockStorage.AssertNotCalled(t, "ReplaceOrderFragments", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveFragments_StorageError(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(nil, assert.AnError)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	_, err := service.SaveFragments(context.Background(), "Q6-100", 10, nil)

	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestRecalculate_SeedsEmptyDrafts(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	order := &storage.Order{ID: 1, OrderNum: "Q6-100"}
	product := testProduct(10, 500)

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(order, nil)
	mockStorage.On("GetOrderProducts", mock.Anything, int64(1)).Return([]*storage.OrderProduct{&product}, nil)
	mockStorage.On("GetOrderFragments", mock.Anything, int64(1)).Return([]*storage.Fragment{}, nil)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	res, err := service.Recalculate(context.Background(), "Q6-100", 10, nil)

	require.NoError(t, err)
	require.Len(t, res.Fragments, 1)

	// Четверть количества, сегодняшняя дата
	assert.Equal(t, 3, res.Fragments[0].Quantity)
	assert.Equal(t, "2026-03-02", res.Fragments[0].Date)
	assert.Equal(t, 3, res.TotalQuantity)
	assert.Equal(t, "150.00", res.TotalValue.StringFixed(2))

	// Четверть не закрывает строгую политику, вердикт отрицательный
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Reason)
}

func TestRecalculate_RederivesValues(t *testing.T) {
	mockStorage := new(MockFragmentStorage)

	order := &storage.Order{ID: 1, OrderNum: "Q6-100"}
	product := testProduct(100, 500)

	mockStorage.On("GetOrder", mock.Anything, "Q6-100").Return(order, nil)
	mockStorage.On("GetOrderProducts", mock.Anything, int64(1)).Return([]*storage.OrderProduct{&product}, nil)
	mockStorage.On("GetOrderFragments", mock.Anything, int64(1)).Return([]*storage.Fragment{}, nil)

	service := newTestService(t, mockStorage, config.PolicyStrict)

	drafts := []storage.Fragment{
		{Quantity: 40, Date: "2026-03-02", Value: decimal.NewFromInt(999)},
		{Quantity: 60, Date: "2026-03-03"},
	}

	res, err := service.Recalculate(context.Background(), "Q6-100", 10, drafts)

	require.NoError(t, err)
	require.Len(t, res.Fragments, 2)

	// Стоимость с формы не принимается на веру
	assert.Equal(t, "200.00", res.Fragments[0].Value.StringFixed(2))
	assert.Equal(t, "300.00", res.Fragments[1].Value.StringFixed(2))
	assert.Equal(t, 100, res.TotalQuantity)
	assert.Equal(t, "500.00", res.TotalValue.StringFixed(2))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reason)
}
