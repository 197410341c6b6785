package models

// CartStatus жизненный цикл корзины: OPEN -> CONVERTED
type CartStatus string

const (
	CartStatusOpen      CartStatus = "OPEN"
	CartStatusConverted CartStatus = "CONVERTED"
)

// Cart корзина пользователя
type Cart struct {
	ID     int64
	UserID int64
	Status CartStatus
}

// CartLine позиция корзины вместе с данными товара
type CartLine struct {
	CartItemID int64  `json:"cartItemId"`
	Quantity   int    `json:"quantity"`
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	Price      Money  `json:"price"`
	ImageURL   string `json:"imageUrl"`
	Stock      int    `json:"stock"`
}

// Subtotal цена * количество
func (l CartLine) Subtotal() Money {
	return l.Price.Mul(l.Quantity)
}

// CartView то, что видит клиент
type CartView struct {
	CartID int64      `json:"cartId"`
	Items  []CartLine `json:"items"`
	Total  Money      `json:"total"`
}

// NewCartView считает итог по строкам
func NewCartView(cartID int64, lines []CartLine) *CartView {
	total := Money{}
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return &CartView{CartID: cartID, Items: lines, Total: total}
}
