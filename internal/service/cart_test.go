package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSession = "3f1a9c5e-7d2b-4a61-9e8f-123456789abc"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCartService_GetOrCreate(t *testing.T) {
	cart := entities.Cart{ID: "cart-1", SessionID: testSession}
	lines := []entities.CartLine{{ID: "line-1", CartID: "cart-1", Ref: entities.ProductRef(1), Quantity: 2}}

	t.Run("existing cart with lines", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("GetLines", mock.Anything, "cart-1").Return(lines, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		got, err := svc.GetOrCreate(context.Background(), testSession)

		require.NoError(t, err)
		assert.Equal(t, "cart-1", got.ID)
		assert.Len(t, got.Lines, 1)
		carts.AssertExpectations(t)
	})

	t.Run("creates cart lazily on first access", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()
		carts.On("CreateCart", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("GetLines", mock.Anything, "cart-1").Return([]entities.CartLine{}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		got, err := svc.GetOrCreate(context.Background(), testSession)

		require.NoError(t, err)
		assert.Equal(t, "cart-1", got.ID)
		assert.Empty(t, got.Lines)
		carts.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		dbErr := errors.New("db error")
		carts.On("GetCartBySession", mock.Anything, testSession).Return(entities.Cart{}, dbErr).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		_, err := svc.GetOrCreate(context.Background(), testSession)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCartService_AddLine(t *testing.T) {
	cart := entities.Cart{ID: "cart-1", SessionID: testSession}
	product := entities.Product{ID: 1, Name: "mug", Price: decimal.RequireFromString("10.00")}
	pkg := entities.Package{ID: 2, Name: "gift set", Price: decimal.RequireFromString("25.50")}

	t.Run("adds product line", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		catalog.On("FindProduct", mock.Anything, int64(1)).Return(product, nil).Once()
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("UpsertLine", mock.Anything, "cart-1", entities.ProductRef(1), 2).
			Return(entities.CartLine{ID: "line-1", CartID: "cart-1", Ref: entities.ProductRef(1), Quantity: 2}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		line, err := svc.AddLine(context.Background(), testSession, entities.ProductRef(1), 2)

		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)
		require.NotNil(t, line.Product)
		assert.Equal(t, "mug", line.Product.Name)
		carts.AssertExpectations(t)
		catalog.AssertExpectations(t)
	})

	t.Run("duplicate add increments quantity", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		catalog.On("FindProduct", mock.Anything, int64(1)).Return(product, nil).Once()
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		// строка уже была с количеством 2, добавили 3
		carts.On("UpsertLine", mock.Anything, "cart-1", entities.ProductRef(1), 3).
			Return(entities.CartLine{ID: "line-1", CartID: "cart-1", Ref: entities.ProductRef(1), Quantity: 5}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		line, err := svc.AddLine(context.Background(), testSession, entities.ProductRef(1), 3)

		require.NoError(t, err)
		assert.Equal(t, "line-1", line.ID)
		assert.Equal(t, 5, line.Quantity)
	})

	t.Run("adds package line to fresh cart", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		catalog.On("FindPackage", mock.Anything, int64(2)).Return(pkg, nil).Once()
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()
		carts.On("CreateCart", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("UpsertLine", mock.Anything, "cart-1", entities.PackageRef(2), 1).
			Return(entities.CartLine{ID: "line-2", CartID: "cart-1", Ref: entities.PackageRef(2), Quantity: 1}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		line, err := svc.AddLine(context.Background(), testSession, entities.PackageRef(2), 1)

		require.NoError(t, err)
		require.NotNil(t, line.Package)
		assert.Equal(t, "gift set", line.Package.Name)
		carts.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		catalog.On("FindProduct", mock.Anything, int64(404)).
			Return(entities.Product{}, entities.ErrProductNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		_, err := svc.AddLine(context.Background(), testSession, entities.ProductRef(404), 1)

		assert.ErrorIs(t, err, entities.ErrProductNotFound)
		carts.AssertNotCalled(t, "UpsertLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartService_UpdateLine(t *testing.T) {
	cart := entities.Cart{ID: "cart-1", SessionID: testSession}

	t.Run("updates quantity", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("UpdateLineQuantity", mock.Anything, "cart-1", "line-1", 7).
			Return(entities.CartLine{ID: "line-1", CartID: "cart-1", Ref: entities.ProductRef(1), Quantity: 7}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		line, removed, err := svc.UpdateLine(context.Background(), testSession, "line-1", 7)

		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 7, line.Quantity)
	})

	t.Run("quantity zero removes line", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("DeleteLine", mock.Anything, "cart-1", "line-1").Return(nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		_, removed, err := svc.UpdateLine(context.Background(), testSession, "line-1", 0)

		require.NoError(t, err)
		assert.True(t, removed)
		carts.AssertNotCalled(t, "UpdateLineQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no cart means no line", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		_, _, err := svc.UpdateLine(context.Background(), testSession, "line-1", 3)

		assert.ErrorIs(t, err, entities.ErrCartLineNotFound)
	})

	t.Run("foreign line looks absent", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).Return(cart, nil).Once()
		carts.On("UpdateLineQuantity", mock.Anything, "cart-1", "foreign-line", 3).
			Return(entities.CartLine{}, entities.ErrCartLineNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		_, _, err := svc.UpdateLine(context.Background(), testSession, "foreign-line", 3)

		assert.ErrorIs(t, err, entities.ErrCartLineNotFound)
	})
}

func TestCartService_RemoveLine(t *testing.T) {
	t.Run("removes line", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{ID: "cart-1"}, nil).Once()
		carts.On("DeleteLine", mock.Anything, "cart-1", "line-1").Return(nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		assert.NoError(t, svc.RemoveLine(context.Background(), testSession, "line-1"))
	})

	t.Run("no cart means no line", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		err := svc.RemoveLine(context.Background(), testSession, "line-1")

		assert.ErrorIs(t, err, entities.ErrCartLineNotFound)
	})
}

func TestCartService_Clear(t *testing.T) {
	t.Run("clears lines", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{ID: "cart-1"}, nil).Once()
		carts.On("ClearLines", mock.Anything, "cart-1").Return(nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		assert.NoError(t, svc.Clear(context.Background(), testSession))
	})

	t.Run("missing cart is fine", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		assert.NoError(t, svc.Clear(context.Background(), testSession))
		carts.AssertNotCalled(t, "ClearLines", mock.Anything, mock.Anything)
	})
}

func TestCartService_Summarize(t *testing.T) {
	t.Run("live totals", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{ID: "cart-1"}, nil).Once()
		carts.On("GetLines", mock.Anything, "cart-1").Return([]entities.CartLine{
			{
				Ref:      entities.ProductRef(1),
				Product:  &entities.Product{ID: 1, Price: decimal.RequireFromString("10.00")},
				Quantity: 2,
			},
			{
				Ref:      entities.PackageRef(2),
				Package:  &entities.Package{ID: 2, Price: decimal.RequireFromString("25.50")},
				Quantity: 1,
			},
		}, nil).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		summary, err := svc.Summarize(context.Background(), testSession)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.TotalItems)
		assert.Equal(t, 2, summary.ItemCount)
		assert.Equal(t, "45.50", summary.TotalPrice.StringFixed(2))
	})

	t.Run("no cart gives zeroes, not an error", func(t *testing.T) {
		carts, catalog := new(mockCartRepo), new(mockCatalog)
		carts.On("GetCartBySession", mock.Anything, testSession).
			Return(entities.Cart{}, entities.ErrCartNotFound).Once()

		svc := service.NewCartService(testLogger, carts, catalog)
		summary, err := svc.Summarize(context.Background(), testSession)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.TotalItems)
		assert.Equal(t, 0, summary.ItemCount)
		assert.True(t, summary.TotalPrice.IsZero())
	})
}
