package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type orderRepo struct {
	postgres
}

func NewOrderRepo(db *sqlx.DB) *orderRepo {
	return &orderRepo{postgres: newPostgres(db)}
}

func (r *orderRepo) InsertOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns("order_id", "session_id", "name", "phone", "address", "total", "status", "created_at").
		Values(o.ID, o.SessionID, o.Name, o.Phone, o.Address, o.Total, string(o.Status), o.CreatedAt).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) InsertLines(ctx context.Context, lines []entities.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.qb.Insert("order_lines").
		Columns("line_id", "order_id", "product_id", "package_id", "name", "unit_price", "quantity", "subtotal")

	for _, l := range lines {
		m := OrderLineToModel(l)
		q = q.Values(m.ID, m.OrderID, m.ProductID, m.PackageID, m.Name, m.UnitPrice, m.Quantity, m.Subtotal)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}
	return nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(
		"order_id", "session_id", "name", "phone", "address", "total", "status", "created_at").
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select(
		"line_id", "order_id", "product_id", "package_id", "name", "unit_price", "quantity", "subtotal").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("line_id").
		MustSql()

	var lines []OrderLine
	if err := r.selectContext(ctx, &lines, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order lines: %w", err)
	}

	return OrderToEntity(order, lines), nil
}

func (r *orderRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	return r.listOrders(ctx, nil)
}

func (r *orderRepo) ListOrdersBySession(ctx context.Context, sessionID string) ([]entities.Order, error) {
	return r.listOrders(ctx, sq.Eq{"session_id": sessionID})
}

func (r *orderRepo) listOrders(ctx context.Context, where any) ([]entities.Order, error) {
	// Получаем заказы, новые сверху
	q := r.qb.Select(
		"order_id", "session_id", "name", "phone", "address", "total", "status", "created_at").
		From("orders").
		OrderBy("created_at DESC")
	if where != nil {
		q = q.Where(where)
	}
	query, args := q.MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	// Получаем строки для этих заказов одним запросом
	query, args = r.qb.Select(
		"line_id", "order_id", "product_id", "package_id", "name", "unit_price", "quantity", "subtotal").
		From("order_lines").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("line_id").
		MustSql()

	var lines []OrderLine
	if err := r.selectContext(ctx, &lines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order lines: %w", err)
	}
	linesMap := make(map[string][]OrderLine, len(ids))
	for _, l := range lines {
		linesMap[l.OrderID] = append(linesMap[l.OrderID], l)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderToEntity(o, linesMap[o.ID]))
	}
	return result, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) (entities.Order, error) {
	query, args := r.qb.Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.Order{}, entities.ErrOrderNotFound
	}

	return r.GetOrderByID(ctx, orderID)
}

// DeleteOrder удаляет заказ вместе со строками (каскадом). Необратимо.
func (r *orderRepo) DeleteOrder(ctx context.Context, orderID string) error {
	query, args := r.qb.Delete("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}
