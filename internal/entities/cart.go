package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID       string
	CartID   string
	Ref      ItemRef
	Quantity int

	// тут указатели, потому что заполнен ровно один из двух
	Product *Product
	Package *Package
}

// UnitPrice возвращает живую цену товара или набора на момент чтения.
func (l CartLine) UnitPrice() decimal.Decimal {
	if l.Ref.Kind == RefPackage && l.Package != nil {
		return l.Package.Price
	}
	if l.Product != nil {
		return l.Product.Price
	}
	return decimal.Zero
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	Lines     []CartLine
}

// CartSummary считается по живым ценам каталога, ничего не фиксирует.
type CartSummary struct {
	TotalItems int
	ItemCount  int
	TotalPrice decimal.Decimal
}

func (c Cart) Summarize() CartSummary {
	s := CartSummary{TotalPrice: decimal.Zero}
	for _, l := range c.Lines {
		s.TotalItems += l.Quantity
		s.ItemCount++
		s.TotalPrice = s.TotalPrice.Add(l.Subtotal())
	}
	return s
}
