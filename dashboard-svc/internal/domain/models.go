package domain

import "time"

type Owner struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Restaurant struct {
	ID        int       `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Image     string    `json:"image"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
}

type Category string

const (
	CategoryFood  Category = "MAKANAN"
	CategoryDrink Category = "MINUMAN"
)

func (c Category) Valid() bool {
	return c == CategoryFood || c == CategoryDrink
}

type MenuItem struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurants_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int       `json:"price"`
	Category     Category  `json:"category"`
	IsAvailable  bool      `json:"is_available"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
}

// MenuInput is the raw owner-submitted form, validated before any write.
type MenuInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

type MenuFilter struct {
	Category string
	Search   string
}

type Order struct {
	ID            int         `json:"id"`
	RestaurantID  int         `json:"restaurants_id"`
	CustomerID    string      `json:"user_id"`
	CustomerName  string      `json:"customer_name"`
	CreatedAt     time.Time   `json:"created_at"`
	OriginalTotal float64     `json:"original_total"`
	UsedCoin      int         `json:"used_coin"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"order_status"`
	Type          string      `json:"type"`
	Notes         string      `json:"notes"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	MenuID   int     `json:"menu_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type OrderFilter struct {
	Status OrderStatus
	From   *time.Time
	To     *time.Time
	// Fresh skips cached results; the fresh read still refills the cache.
	Fresh bool
}

// IsZero reports whether the filter selects the whole order list.
func (f OrderFilter) IsZero() bool {
	return f.Status == "" && f.From == nil && f.To == nil
}

// StatusEvent is published after every committed transition.
type StatusEvent struct {
	Type         string      `json:"type"`
	OrderID      int         `json:"order_id"`
	RestaurantID int         `json:"restaurant_id"`
	CustomerID   string      `json:"customer_id"`
	From         OrderStatus `json:"from"`
	To           OrderStatus `json:"to"`
	Total        float64     `json:"total"`
	CoinDelta    int         `json:"coin_delta"`
	PlacedAt     time.Time   `json:"placed_at"`
	Timestamp    time.Time   `json:"timestamp"`
}

const StatusChangedEvent = "order_status_changed"

type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	RestaurantName  string `json:"restaurant_name"`
	Subtitle        string `json:"subtitle"`
}
