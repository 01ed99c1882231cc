package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
)

type CartRepo interface {
	GetCartBySession(ctx context.Context, sessionID string) (entities.Cart, error)
	CreateCart(ctx context.Context, sessionID string) (entities.Cart, error)
	GetLines(ctx context.Context, cartID string) ([]entities.CartLine, error)

	// UpsertLine идемпотентна по строке: повторное добавление той же
	// позиции увеличивает количество, а не создаёт дубль
	UpsertLine(ctx context.Context, cartID string, ref entities.ItemRef, quantity int) (entities.CartLine, error)
	UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (entities.CartLine, error)
	DeleteLine(ctx context.Context, cartID, lineID string) error
	ClearLines(ctx context.Context, cartID string) error
}

type Catalog interface {
	FindProduct(ctx context.Context, id int64) (entities.Product, error)
	FindPackage(ctx context.Context, id int64) (entities.Package, error)
}

type cartService struct {
	logger  *slog.Logger
	carts   CartRepo
	catalog Catalog
}

func NewCartService(logger *slog.Logger, carts CartRepo, catalog Catalog) *cartService {
	return &cartService{
		logger:  logger.With(slog.String("service", "cart")),
		carts:   carts,
		catalog: catalog,
	}
}

// GetOrCreate возвращает корзину сессии, создавая пустую при первом обращении.
func (s *cartService) GetOrCreate(ctx context.Context, sessionID string) (entities.Cart, error) {
	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		cart, err = s.carts.CreateCart(ctx, sessionID)
		if err == nil {
			s.logger.Debug("cart created", slog.String("session_id", sessionID))
		}
	}
	if err != nil {
		return entities.Cart{}, fmt.Errorf("failed to get or create cart: %w", err)
	}

	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return entities.Cart{}, fmt.Errorf("failed to load cart lines: %w", err)
	}
	cart.Lines = lines
	return cart, nil
}

// AddLine добавляет позицию каталога в корзину сессии.
func (s *cartService) AddLine(ctx context.Context, sessionID string, ref entities.ItemRef, quantity int) (entities.CartLine, error) {
	var (
		product entities.Product
		pkg     entities.Package
		err     error
	)

	// Сначала убеждаемся, что позиция каталога существует
	switch ref.Kind {
	case entities.RefProduct:
		product, err = s.catalog.FindProduct(ctx, ref.ID)
	case entities.RefPackage:
		pkg, err = s.catalog.FindPackage(ctx, ref.ID)
	default:
		return entities.CartLine{}, entities.ErrInvalidRef
	}
	if err != nil {
		return entities.CartLine{}, err
	}

	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		cart, err = s.carts.CreateCart(ctx, sessionID)
	}
	if err != nil {
		return entities.CartLine{}, fmt.Errorf("failed to get or create cart: %w", err)
	}

	line, err := s.carts.UpsertLine(ctx, cart.ID, ref, quantity)
	if err != nil {
		return entities.CartLine{}, err
	}

	switch ref.Kind {
	case entities.RefProduct:
		line.Product = &product
	case entities.RefPackage:
		line.Package = &pkg
	}

	s.logger.Debug("cart line added",
		slog.String("session_id", sessionID),
		slog.String("line_id", line.ID),
		slog.Int("quantity", line.Quantity),
	)
	return line, nil
}

// UpdateLine меняет количество строки. Количество 0 удаляет строку,
// removed сообщает об этом вызывающему.
func (s *cartService) UpdateLine(ctx context.Context, sessionID, lineID string, quantity int) (line entities.CartLine, removed bool, err error) {
	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		// нет корзины - нет и строки
		return entities.CartLine{}, false, entities.ErrCartLineNotFound
	}
	if err != nil {
		return entities.CartLine{}, false, fmt.Errorf("failed to get cart: %w", err)
	}

	if quantity == 0 {
		if err := s.carts.DeleteLine(ctx, cart.ID, lineID); err != nil {
			return entities.CartLine{}, false, err
		}
		return entities.CartLine{}, true, nil
	}

	line, err = s.carts.UpdateLineQuantity(ctx, cart.ID, lineID, quantity)
	if err != nil {
		return entities.CartLine{}, false, err
	}
	return line, false, nil
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID, lineID string) error {
	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		return entities.ErrCartLineNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	return s.carts.DeleteLine(ctx, cart.ID, lineID)
}

// Clear удаляет все строки, корзина остаётся за сессией.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	return s.carts.ClearLines(ctx, cart.ID)
}

// Summarize считает итоги по живым ценам каталога.
// Для сессии без корзины возвращает нули, а не ошибку.
func (s *cartService) Summarize(ctx context.Context, sessionID string) (entities.CartSummary, error) {
	cart, err := s.carts.GetCartBySession(ctx, sessionID)
	if errors.Is(err, entities.ErrCartNotFound) {
		return entities.Cart{}.Summarize(), nil
	}
	if err != nil {
		return entities.CartSummary{}, fmt.Errorf("failed to get cart: %w", err)
	}

	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return entities.CartSummary{}, fmt.Errorf("failed to load cart lines: %w", err)
	}
	cart.Lines = lines
	return cart.Summarize(), nil
}
