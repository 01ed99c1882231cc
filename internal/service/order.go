package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/pkg/trm"
	"github.com/SergeyBogomolovv/shop-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderRepo interface {
	InsertOrder(ctx context.Context, o entities.Order) error
	InsertLines(ctx context.Context, lines []entities.OrderLine) error
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) (entities.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// CartStore часть корзины, нужная оформлению заказа.
type CartStore interface {
	GetCartBySession(ctx context.Context, sessionID string) (entities.Cart, error)
	GetLines(ctx context.Context, cartID string) ([]entities.CartLine, error)
	DeleteCart(ctx context.Context, cartID string) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order entities.Order) error
	PublishOrderStatusChanged(ctx context.Context, order entities.Order) error
}

type PlaceOrderInput struct {
	SessionID string
	Name      string
	Phone     string
	Address   string
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	orders    OrderRepo
	carts     CartStore
	cache     Cache
	events    EventPublisher
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, orders OrderRepo, carts CartStore, cache Cache, events EventPublisher) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		orders:    orders,
		carts:     carts,
		cache:     cache,
		events:    events,
	}
}

var checkoutTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}

// PlaceOrder превращает корзину сессии в заказ с зафиксированными ценами.
// Запись заказа и удаление корзины - одна транзакция: либо обе, либо ни одной,
// при ошибке корзина остаётся нетронутой и запрос можно повторить.
func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (entities.Order, error) {
	order := entities.Order{
		ID:        uuid.NewString(),
		SessionID: in.SessionID,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Status:    entities.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err := s.txManager.DoWithOptions(ctx, checkoutTxOptions, func(ctx context.Context) error {
		cart, err := s.carts.GetCartBySession(ctx, in.SessionID)
		if errors.Is(err, entities.ErrCartNotFound) {
			return entities.ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("failed to get cart: %w", err)
		}

		lines, err := s.carts.GetLines(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to load cart lines: %w", err)
		}
		if len(lines) == 0 {
			return entities.ErrEmptyCart
		}

		order.Lines, order.Total, err = snapshotLines(order.ID, lines)
		if err != nil {
			return err
		}

		if err := s.orders.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := s.orders.InsertLines(ctx, order.Lines); err != nil {
			return err
		}
		return s.carts.DeleteCart(ctx, cart.ID)
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.logger.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("session_id", order.SessionID),
		slog.String("total", order.Total.String()),
	)

	s.cacheOrder(order)

	// Заказ уже записан: обрыв соединения клиента не должен отменить событие.
	if err := s.events.PublishOrderCreated(context.WithoutCancel(ctx), order); err != nil {
		s.logger.Error("failed to publish order created event", slog.Any("error", err))
	}

	return order, nil
}

// snapshotLines копирует цены каталога в строки заказа. Это снимок:
// дальнейшие изменения цен на заказ не влияют.
func snapshotLines(orderID string, lines []entities.CartLine) ([]entities.OrderLine, decimal.Decimal, error) {
	result := make([]entities.OrderLine, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		var name string
		switch {
		case l.Product != nil:
			name = l.Product.Name
		case l.Package != nil:
			name = l.Package.Name
		case l.Ref.Kind == entities.RefPackage:
			return nil, decimal.Zero, entities.ErrPackageNotFound
		default:
			return nil, decimal.Zero, entities.ErrProductNotFound
		}

		subtotal := l.Subtotal()
		result = append(result, entities.OrderLine{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			Ref:       l.Ref,
			Name:      name,
			UnitPrice: l.UnitPrice(),
			Quantity:  l.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	return result, total, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal order", slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, err
		}
		return order, nil
	}

	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.orders.GetOrderByID(ctx, orderID)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	s.cacheOrder(order)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]entities.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *orderService) ListOrdersBySession(ctx context.Context, sessionID string) ([]entities.Order, error) {
	return s.orders.ListOrdersBySession(ctx, sessionID)
}

// UpdateStatus переводит заказ в любой статус из фиксированного набора.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status string) (entities.Order, error) {
	st, err := entities.ParseOrderStatus(status)
	if err != nil {
		return entities.Order{}, err
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, st)
	if err != nil {
		return entities.Order{}, err
	}

	s.cacheOrder(order)

	if err := s.events.PublishOrderStatusChanged(context.WithoutCancel(ctx), order); err != nil {
		s.logger.Error("failed to publish status changed event", slog.Any("error", err))
	}

	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	s.cache.Delete(orderID)
	return nil
}

func (s *orderService) cacheOrder(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_id", order.ID), slog.Any("error", err))
		return
	}
	s.cache.Set(order.ID, data)
}
