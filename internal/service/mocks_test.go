package service_test

import (
	"context"
	"database/sql"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/pkg/trm"

	"github.com/stretchr/testify/mock"
)

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) GetCartBySession(ctx context.Context, sessionID string) (entities.Cart, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(entities.Cart), args.Error(1)
}

func (m *mockCartRepo) CreateCart(ctx context.Context, sessionID string) (entities.Cart, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(entities.Cart), args.Error(1)
}

func (m *mockCartRepo) GetLines(ctx context.Context, cartID string) ([]entities.CartLine, error) {
	args := m.Called(ctx, cartID)
	if lines := args.Get(0); lines != nil {
		return lines.([]entities.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartRepo) UpsertLine(ctx context.Context, cartID string, ref entities.ItemRef, quantity int) (entities.CartLine, error) {
	args := m.Called(ctx, cartID, ref, quantity)
	return args.Get(0).(entities.CartLine), args.Error(1)
}

func (m *mockCartRepo) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (entities.CartLine, error) {
	args := m.Called(ctx, cartID, lineID, quantity)
	return args.Get(0).(entities.CartLine), args.Error(1)
}

func (m *mockCartRepo) DeleteLine(ctx context.Context, cartID, lineID string) error {
	return m.Called(ctx, cartID, lineID).Error(0)
}

func (m *mockCartRepo) ClearLines(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *mockCartRepo) DeleteCart(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) FindProduct(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockCatalog) FindPackage(ctx context.Context, id int64) (entities.Package, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Package), args.Error(1)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) InsertOrder(ctx context.Context, o entities.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) InsertLines(ctx context.Context, lines []entities.OrderLine) error {
	return m.Called(ctx, lines).Error(0)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	if orders := args.Get(0); orders != nil {
		return orders.([]entities.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListOrdersBySession(ctx context.Context, sessionID string) ([]entities.Order, error) {
	args := m.Called(ctx, sessionID)
	if orders := args.Get(0); orders != nil {
		return orders.([]entities.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) (entities.Order, error) {
	args := m.Called(ctx, orderID, status)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) DeleteOrder(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockPublisher) PublishOrderStatusChanged(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *fakeCache) Delete(key string) {
	delete(c.data, key)
}

// fakeTxManager выполняет callback без настоящей транзакции.
type fakeTxManager struct{}

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func (fakeTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (context.Context, trm.Transaction, error) {
	return ctx, nopTx{}, nil
}

func (f fakeTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

func (f fakeTxManager) DoWithOptions(ctx context.Context, opts *sql.TxOptions, callback func(ctx context.Context) error) error {
	return callback(ctx)
}
