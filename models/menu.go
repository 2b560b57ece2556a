package models

import (
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID    int             `yaml:"id" json:"id"`
	Name  string          `yaml:"name" json:"name"`
	Price decimal.Decimal `yaml:"price" json:"price"`
}

// Category groups menu items for display only.
type Category struct {
	Name  string     `yaml:"name" json:"name"`
	Items []MenuItem `yaml:"items" json:"items"`
}

type CartEntry struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// PricedLineItem is derived from a CartEntry and its MenuItem; it is never stored.
type PricedLineItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
