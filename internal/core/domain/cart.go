package domain

import "github.com/shopspring/decimal"

// Cart holds line items in insertion order, at most one per product id.
type Cart []Product

func (c Cart) Find(productID int) (Product, bool) {
	for _, item := range c {
		if item.ID == productID {
			return item, true
		}
	}
	return Product{}, false
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}
