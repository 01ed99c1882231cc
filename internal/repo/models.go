package repo

import (
	"database/sql"
	"time"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        string    `db:"cart_id"`
	SessionID string    `db:"session_id"`
	CreatedAt time.Time `db:"created_at"`
}

type CartLine struct {
	ID        string        `db:"line_id"`
	CartID    string        `db:"cart_id"`
	ProductID sql.NullInt64 `db:"product_id"`
	PackageID sql.NullInt64 `db:"package_id"`
	Quantity  int           `db:"quantity"`
}

// ResolvedCartLine строка корзины вместе с данными каталога,
// заполнена ровно одна из двух пар name/price.
type ResolvedCartLine struct {
	CartLine
	ProductName  sql.NullString      `db:"product_name"`
	ProductPrice decimal.NullDecimal `db:"product_price"`
	ProductColor sql.NullString      `db:"product_color"`
	PackageName  sql.NullString      `db:"package_name"`
	PackagePrice decimal.NullDecimal `db:"package_price"`
}

type Order struct {
	ID        string          `db:"order_id"`
	SessionID string          `db:"session_id"`
	Name      string          `db:"name"`
	Phone     string          `db:"phone"`
	Address   string          `db:"address"`
	Total     decimal.Decimal `db:"total"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

type OrderLine struct {
	ID        string          `db:"line_id"`
	OrderID   string          `db:"order_id"`
	ProductID sql.NullInt64   `db:"product_id"`
	PackageID sql.NullInt64   `db:"package_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}

type Product struct {
	ID    int64           `db:"product_id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
	Color string          `db:"color"`
}

type Package struct {
	ID    int64           `db:"package_id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
}

func lineRef(productID, packageID sql.NullInt64) entities.ItemRef {
	if packageID.Valid {
		return entities.PackageRef(packageID.Int64)
	}
	return entities.ProductRef(productID.Int64)
}

func CartLineToEntity(l CartLine) entities.CartLine {
	return entities.CartLine{
		ID:       l.ID,
		CartID:   l.CartID,
		Ref:      lineRef(l.ProductID, l.PackageID),
		Quantity: l.Quantity,
	}
}

// ResolvedCartLineToEntity прикрепляет данные каталога, если они нашлись.
// Строка, чья позиция исчезла из каталога, остаётся без наполнения.
func ResolvedCartLineToEntity(l ResolvedCartLine) entities.CartLine {
	line := CartLineToEntity(l.CartLine)

	switch {
	case line.Ref.Kind == entities.RefProduct && l.ProductName.Valid:
		line.Product = &entities.Product{
			ID:    line.Ref.ID,
			Name:  l.ProductName.String,
			Price: l.ProductPrice.Decimal,
			Color: l.ProductColor.String,
		}
	case line.Ref.Kind == entities.RefPackage && l.PackageName.Valid:
		line.Package = &entities.Package{
			ID:    line.Ref.ID,
			Name:  l.PackageName.String,
			Price: l.PackagePrice.Decimal,
		}
	}
	return line
}

func OrderLineToEntity(l OrderLine) entities.OrderLine {
	return entities.OrderLine{
		ID:        l.ID,
		OrderID:   l.OrderID,
		Ref:       lineRef(l.ProductID, l.PackageID),
		Name:      l.Name,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		Subtotal:  l.Subtotal,
	}
}

func OrderToEntity(o Order, lines []OrderLine) entities.Order {
	order := entities.Order{
		ID:        o.ID,
		SessionID: o.SessionID,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		Total:     o.Total,
		Status:    entities.OrderStatus(o.Status),
		CreatedAt: o.CreatedAt,
	}

	if len(lines) > 0 {
		order.Lines = make([]entities.OrderLine, 0, len(lines))
		for _, l := range lines {
			order.Lines = append(order.Lines, OrderLineToEntity(l))
		}
	}

	return order
}

func OrderLineToModel(l entities.OrderLine) OrderLine {
	m := OrderLine{
		ID:        l.ID,
		OrderID:   l.OrderID,
		Name:      l.Name,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		Subtotal:  l.Subtotal,
	}
	switch l.Ref.Kind {
	case entities.RefProduct:
		m.ProductID = sql.NullInt64{Int64: l.Ref.ID, Valid: true}
	case entities.RefPackage:
		m.PackageID = sql.NullInt64{Int64: l.Ref.ID, Valid: true}
	}
	return m
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Color: p.Color,
	}
}

func PackageToEntity(p Package) entities.Package {
	return entities.Package{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}
