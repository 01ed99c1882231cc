package handler

import (
	"time"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"

	"github.com/shopspring/decimal"
)

// Money всегда сериализуется с двумя знаками после запятой,
// чтобы клиенты видели "10.00", а не "10".
type Money struct {
	decimal.Decimal
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// Product позиция каталога
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Color string `json:"color,omitempty"`
}

// Package набор товаров
type Package struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// CartLine строка корзины
type CartLine struct {
	ID        string   `json:"id"`
	ProductID *int64   `json:"product_id,omitempty"`
	PackageID *int64   `json:"package_id,omitempty"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
	Package   *Package `json:"package,omitempty"`
}

// Cart корзина сессии
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	CreatedAt time.Time  `json:"created_at"`
	Lines     []CartLine `json:"lines"`
}

// CartSummary итоги корзины по живым ценам
type CartSummary struct {
	TotalItems int   `json:"total_items"`
	ItemCount  int   `json:"item_count"`
	TotalPrice Money `json:"total_price"`
}

// OrderLine строка заказа, снимок цены на момент оформления
type OrderLine struct {
	ID        string `json:"id"`
	ProductID *int64 `json:"product_id,omitempty"`
	PackageID *int64 `json:"package_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice Money  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  Money  `json:"subtotal"`
}

// Order заказ
type Order struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Total     Money       `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []OrderLine `json:"lines"`
}

// AddItemRequest принимает ровно один из product_id и package_id
type AddItemRequest struct {
	ProductID *int64 `json:"product_id" validate:"required_without=PackageID,excluded_with=PackageID"`
	PackageID *int64 `json:"package_id" validate:"omitempty"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateItemRequest количество 0 удаляет строку
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// CreateOrderRequest контактные данные покупателя
type CreateOrderRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"required,e164"`
	Address string `json:"address" validate:"required,min=5"`
}

// UpdateStatusRequest новый статус заказа
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func refToIDs(ref entities.ItemRef) (productID, packageID *int64) {
	id := ref.ID
	switch ref.Kind {
	case entities.RefProduct:
		return &id, nil
	case entities.RefPackage:
		return nil, &id
	}
	return nil, nil
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: Money{p.Price},
		Color: p.Color,
	}
}

func PackageEntityToJSON(p entities.Package) Package {
	return Package{
		ID:    p.ID,
		Name:  p.Name,
		Price: Money{p.Price},
	}
}

func CartLineEntityToJSON(l entities.CartLine) CartLine {
	productID, packageID := refToIDs(l.Ref)

	line := CartLine{
		ID:        l.ID,
		ProductID: productID,
		PackageID: packageID,
		Quantity:  l.Quantity,
	}
	if l.Product != nil {
		p := ProductEntityToJSON(*l.Product)
		line.Product = &p
	}
	if l.Package != nil {
		p := PackageEntityToJSON(*l.Package)
		line.Package = &p
	}
	return line
}

func CartEntityToJSON(c entities.Cart) Cart {
	lines := make([]CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineEntityToJSON(l))
	}

	return Cart{
		ID:        c.ID,
		SessionID: c.SessionID,
		CreatedAt: c.CreatedAt,
		Lines:     lines,
	}
}

func CartSummaryEntityToJSON(s entities.CartSummary) CartSummary {
	return CartSummary{
		TotalItems: s.TotalItems,
		ItemCount:  s.ItemCount,
		TotalPrice: Money{s.TotalPrice},
	}
}

func OrderLineEntityToJSON(l entities.OrderLine) OrderLine {
	productID, packageID := refToIDs(l.Ref)

	return OrderLine{
		ID:        l.ID,
		ProductID: productID,
		PackageID: packageID,
		Name:      l.Name,
		UnitPrice: Money{l.UnitPrice},
		Quantity:  l.Quantity,
		Subtotal:  Money{l.Subtotal},
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineEntityToJSON(l))
	}

	return Order{
		ID:        o.ID,
		SessionID: o.SessionID,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		Total:     Money{o.Total},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		Lines:     lines,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	return result
}
