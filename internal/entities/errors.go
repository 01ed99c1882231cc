package entities

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrPackageNotFound  = errors.New("package not found")

	// ErrEmptyCart означает, что у сессии нет корзины или она пуста
	ErrEmptyCart = errors.New("cart is empty or missing")

	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidRef    = errors.New("line must reference exactly one of product or package")
)
