package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review отзыв покупателя о товаре; Username подтягивается из users
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"-"`
	UserID    int64     `json:"-"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
