package domain

import "github.com/shopspring/decimal"

// MenuLineItem is an ordered product. Lines sharing a menu number are merged by
// quantity when they are applied to a tab.
type MenuLineItem struct {
	MenuNumber  int             `json:"menu_number"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Total is the line's unit price times its quantity.
func (l MenuLineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderItem is one entry of a PlaceOrder command.
type OrderItem struct {
	MenuNumber  int             `json:"menu_number"`
	Description string          `json:"description"`
	IsDrink     bool            `json:"is_drink"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (o OrderItem) line() MenuLineItem {
	return MenuLineItem{
		MenuNumber:  o.MenuNumber,
		Description: o.Description,
		UnitPrice:   o.UnitPrice,
		Quantity:    1,
	}
}
