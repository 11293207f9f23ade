package domain

import "time"

const StatusChangedEvent = "order_status_changed"

const StatusCompleted = "COMPLETED"

// StatusEvent mirrors the message dashboard-svc writes to the order-events
// topic after a committed status transition.
type StatusEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"order_id"`
	RestaurantID int       `json:"restaurant_id"`
	CustomerID   string    `json:"customer_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Total        float64   `json:"total"`
	CoinDelta    int       `json:"coin_delta"`
	PlacedAt     time.Time `json:"placed_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// DailyFigure is one restaurant's completed-order total for a single day,
// with the orders it was summed from.
type DailyFigure struct {
	RestaurantID int
	Total        float64
	Count        int
	OrderIDs     []int64
}
