package models

// ShoppingItem is one line of a shopping list. EstimatedPrice is cents.
type ShoppingItem struct {
	Name           string `json:"name"`
	EstimatedPrice int64  `json:"estimated_price"`
	Quantity       int    `json:"quantity"`
}

// ShoppingList is a planned purchase against a single envelope. Checkout
// converts it into a transaction and deletes the list.
type ShoppingList struct {
	Base
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	CategoryID uint   `gorm:"not null" json:"category_id"`

	Items []ShoppingItem `gorm:"serializer:json" json:"items"`
}

// EstimatedTotal sums price*quantity across items. Items with a zero
// quantity count once.
func (l *ShoppingList) EstimatedTotal() int64 {
	var total int64
	for _, item := range l.Items {
		qty := int64(item.Quantity)
		if qty <= 0 {
			qty = 1
		}
		total += item.EstimatedPrice * qty
	}
	return total
}
