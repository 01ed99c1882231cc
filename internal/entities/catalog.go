package entities

import "github.com/shopspring/decimal"

// Product позиция каталога. Цвет фиксирован на уровне товара,
// на уровне строки корзины он не выбирается.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Color string
}

// Package набор товаров с собственной ценой.
type Package struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

type RefKind string

const (
	RefProduct RefKind = "product"
	RefPackage RefKind = "package"
)

// ItemRef указывает ровно на один товар или набор.
type ItemRef struct {
	Kind RefKind
	ID   int64
}

func ProductRef(id int64) ItemRef {
	return ItemRef{Kind: RefProduct, ID: id}
}

func PackageRef(id int64) ItemRef {
	return ItemRef{Kind: RefPackage, ID: id}
}
