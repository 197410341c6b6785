package models

import "time"

const OrderStatusPlaced = "PLACED"

// Order представляет заказ, созданный при оформлении корзины
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	TotalAmount     Money       `json:"totalAmount"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"paymentMethod"`
	DeliveryAddress string      `json:"deliveryAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem позиция заказа; Price - снимок цены на момент покупки
type OrderItem struct {
	OrderID     int64  `json:"orderId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"` // заполняется через JOIN с products
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

// CheckoutResult ответ успешного оформления
type CheckoutResult struct {
	OrderID     int64  `json:"orderId"`
	TotalAmount Money  `json:"totalAmount"`
	Status      string `json:"status"`
}

// OrderFilter фильтр истории заказов; нулевые поля не ограничивают выборку.
// From и To включительно.
type OrderFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}
