package catalog

import (
	"context"
	"errors"
)

type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// NewProduct is the input of Add. A nil Price means the caller never set one;
// a nil Available defaults to true.
type NewProduct struct {
	ID        string
	Name      string
	Category  string
	Price     *float64
	Available *bool
}

var (
	ErrValidation   = errors.New("missing required product field")
	ErrDuplicateID  = errors.New("product id already exists")
	ErrInvalidPrice = errors.New("price cannot be negative")
	ErrNotFound     = errors.New("product not found")
)

type Store interface {
	Add(p NewProduct) (Product, error)
	UpdatePrice(id string, price float64) (Product, error)
	Get(id string) (Product, bool)
	ListAvailable() []Product
	ListByCategory(category string) []Product
	ListAll() []Product
	Ping(ctx context.Context) error
}
