package catalog

import (
	"errors"
	"time"
)

// ErrProductNotFound is returned when no product matches a lookup.
var ErrProductNotFound = errors.New("catalog: product not found")

// Status is a product's availability.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusOutOfStock   Status = "out_of_stock"
	StatusDiscontinued Status = "discontinued"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

// Product is one piece of equipment offered for rent or sale. Prices are in
// VND; a nil price is shown as "contact us".
type Product struct {
	ID               string         `json:"id" yaml:"id"`
	Slug             string         `json:"slug" yaml:"slug"`
	Name             string         `json:"name" yaml:"name"`
	Description      *string        `json:"description,omitempty" yaml:"description"`
	BuyPrice         *int64         `json:"buy_price,omitempty" yaml:"buy_price"`
	RentPriceDaily   *int64         `json:"rent_price_daily,omitempty" yaml:"rent_price_daily"`
	RentPriceMonthly *int64         `json:"rent_price_monthly,omitempty" yaml:"rent_price_monthly"`
	Images           []string       `json:"images" yaml:"images"`
	Specifications   map[string]any `json:"specifications,omitempty" yaml:"specifications"`
	Status           Status         `json:"status" yaml:"status"`
	CategoryID       *string        `json:"category_id,omitempty" yaml:"category_id"`
	CategoryName     string         `json:"category_name,omitempty" yaml:"-"`
	Featured         bool           `json:"featured" yaml:"featured"`
	StockQuantity    *int           `json:"stock_quantity,omitempty" yaml:"stock_quantity"`
	CreatedAt        time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time      `json:"updated_at" yaml:"-"`
}

// Category groups products.
type Category struct {
	ID          string    `json:"id" yaml:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Name        string    `json:"name" yaml:"name"`
	Description *string   `json:"description,omitempty" yaml:"description"`
	Icon        *string   `json:"icon,omitempty" yaml:"icon"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}

// Detail is a product together with others from its category.
type Detail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}
