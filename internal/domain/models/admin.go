package models

import "time"

// DashboardMetrics сводка для админки
type DashboardMetrics struct {
	TotalUsers   int64        `json:"totalUsers"`
	TotalOrders  int64        `json:"totalOrders"`
	TotalRevenue Money        `json:"totalRevenue"`
	TopProducts  []TopProduct `json:"topProducts"`
	TotalLogins  int64        `json:"totalLogins"`
	// ActiveUsers разные пользователи, входившие за последние несколько минут
	ActiveUsers int64 `json:"activeUsersRealtime"`
}

type TopProduct struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitsSold int64  `json:"unitsSold"`
}

// LoginBucket число входов за час, начиная с HourStart
type LoginBucket struct {
	HourStart  time.Time `json:"hourStart"`
	Label      string    `json:"label"`
	LoginCount int64     `json:"loginCount"`
}
