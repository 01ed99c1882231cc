package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type cartRepo struct {
	postgres
}

func NewCartRepo(db *sqlx.DB) *cartRepo {
	return &cartRepo{postgres: newPostgres(db)}
}

func (r *cartRepo) GetCartBySession(ctx context.Context, sessionID string) (entities.Cart, error) {
	query, args := r.qb.Select("cart_id", "session_id", "created_at").
		From("carts").
		Where(sq.Eq{"session_id": sessionID}).
		MustSql()

	var cart Cart
	err := r.getContext(ctx, &cart, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Cart{}, entities.ErrCartNotFound
	}
	if err != nil {
		return entities.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	return entities.Cart{ID: cart.ID, SessionID: cart.SessionID, CreatedAt: cart.CreatedAt}, nil
}

// CreateCart создаёт корзину для сессии. При гонке двух первых обращений
// вставку выигрывает одна сторона, обе читают одну и ту же строку.
func (r *cartRepo) CreateCart(ctx context.Context, sessionID string) (entities.Cart, error) {
	query, args := r.qb.Insert("carts").
		Columns("cart_id", "session_id").
		Values(uuid.NewString(), sessionID).
		Suffix("ON CONFLICT (session_id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return entities.Cart{}, fmt.Errorf("failed to create cart: %w", err)
	}

	return r.GetCartBySession(ctx, sessionID)
}

// GetLines возвращает строки корзины с живыми данными каталога.
// Один запрос, чтобы цены всех строк были согласованы между собой.
func (r *cartRepo) GetLines(ctx context.Context, cartID string) ([]entities.CartLine, error) {
	query, args := r.qb.Select(
		"l.line_id", "l.cart_id", "l.product_id", "l.package_id", "l.quantity",
		"p.name AS product_name", "p.price AS product_price", "p.color AS product_color",
		"k.name AS package_name", "k.price AS package_price").
		From("cart_lines l").
		LeftJoin("products p ON p.product_id = l.product_id").
		LeftJoin("packages k ON k.package_id = l.package_id").
		Where(sq.Eq{"l.cart_id": cartID}).
		OrderBy("l.line_id").
		MustSql()

	var rows []ResolvedCartLine
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select cart lines: %w", err)
	}

	lines := make([]entities.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, ResolvedCartLineToEntity(row))
	}
	return lines, nil
}

// UpsertLine добавляет строку либо увеличивает количество существующей.
// Частичный уникальный индекс защищает от дублей при гонках.
func (r *cartRepo) UpsertLine(ctx context.Context, cartID string, ref entities.ItemRef, quantity int) (entities.CartLine, error) {
	line := CartLine{ID: uuid.NewString(), CartID: cartID, Quantity: quantity}

	var conflict string
	switch ref.Kind {
	case entities.RefPackage:
		line.PackageID = sql.NullInt64{Int64: ref.ID, Valid: true}
		conflict = "ON CONFLICT (cart_id, package_id) WHERE package_id IS NOT NULL"
	default:
		line.ProductID = sql.NullInt64{Int64: ref.ID, Valid: true}
		conflict = "ON CONFLICT (cart_id, product_id) WHERE product_id IS NOT NULL"
	}

	query, args := r.qb.Insert("cart_lines").
		Columns("line_id", "cart_id", "product_id", "package_id", "quantity").
		Values(line.ID, line.CartID, line.ProductID, line.PackageID, line.Quantity).
		Suffix(conflict + ` DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
			RETURNING line_id, cart_id, product_id, package_id, quantity`).
		MustSql()

	var saved CartLine
	if err := r.getContext(ctx, &saved, query, args...); err != nil {
		return entities.CartLine{}, fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return CartLineToEntity(saved), nil
}

// UpdateLineQuantity меняет количество строки, принадлежащей корзине.
// Чужая или несуществующая строка неотличимы для вызывающего.
func (r *cartRepo) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (entities.CartLine, error) {
	query, args := r.qb.Update("cart_lines").
		Set("quantity", quantity).
		Where(sq.Eq{"line_id": lineID, "cart_id": cartID}).
		Suffix("RETURNING line_id, cart_id, product_id, package_id, quantity").
		MustSql()

	var saved CartLine
	err := r.getContext(ctx, &saved, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.CartLine{}, entities.ErrCartLineNotFound
	}
	if err != nil {
		return entities.CartLine{}, fmt.Errorf("failed to update cart line: %w", err)
	}
	return CartLineToEntity(saved), nil
}

func (r *cartRepo) DeleteLine(ctx context.Context, cartID, lineID string) error {
	query, args := r.qb.Delete("cart_lines").
		Where(sq.Eq{"line_id": lineID, "cart_id": cartID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrCartLineNotFound
	}
	return nil
}

// ClearLines удаляет строки, сама корзина остаётся за сессией.
func (r *cartRepo) ClearLines(ctx context.Context, cartID string) error {
	query, args := r.qb.Delete("cart_lines").
		Where(sq.Eq{"cart_id": cartID}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}
	return nil
}

// DeleteCart удаляет корзину вместе со строками (каскадом),
// используется при оформлении заказа.
func (r *cartRepo) DeleteCart(ctx context.Context, cartID string) error {
	query, args := r.qb.Delete("carts").
		Where(sq.Eq{"cart_id": cartID}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
