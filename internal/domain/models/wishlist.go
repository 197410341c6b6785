package models

import "time"

// WishlistItem товар из списка желаний вместе с карточкой каталога
type WishlistItem struct {
	WishlistItemID int64     `json:"wishlistItemId"`
	ProductID      int64     `json:"productId"`
	Name           string    `json:"name"`
	Price          Money     `json:"price"`
	ImageURL       string    `json:"imageUrl"`
	Category       string    `json:"category"`
	AddedAt        time.Time `json:"addedAt"`
}
