package domain

// Stock is the number of units currently available for a product.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}
