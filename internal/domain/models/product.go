package models

// Product представляет товар каталога
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       Money    `json:"price"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl"`
	Rating      *float64 `json:"rating"`
}

// варианты сортировки каталога
const (
	SortDefault    = ""
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
)

// ProductFilter параметры выборки каталога
type ProductFilter struct {
	Search   string
	Category string
	Sort     string
}
