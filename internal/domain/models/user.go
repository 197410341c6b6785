package models

import "time"

// User представляет покупателя
type User struct {
	ID             int64
	Username       string
	PassHash       []byte
	DefaultAddress *string
	IsAdmin        bool
	CreatedAt      time.Time
}

// Profile публичные данные пользователя, без хэша пароля
type Profile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	DefaultAddress *string   `json:"defaultAddress"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:             u.ID,
		Username:       u.Username,
		DefaultAddress: u.DefaultAddress,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
	}
}
