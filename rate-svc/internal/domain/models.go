package domain

import "time"

// Rating is a customer's verdict on one order. Customers write them; the
// dashboard only reads.
type Rating struct {
	ID                int       `json:"id"`
	OrderID           int       `json:"order_id"`
	RestaurantID      int       `json:"restaurant_id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	ServiceRating     int       `json:"service_rating"`
	FoodQualityRating int       `json:"food_quality_rating"`
	Review            string    `json:"review"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Totals struct {
	Service int
	Food    int
	Count   int
}

type Summary struct {
	TotalServiceRating int     `json:"totalServiceRating"`
	TotalFoodRating    int     `json:"totalFoodRating"`
	AvgServiceRating   float64 `json:"avgServiceRating"`
	AvgFoodRating      float64 `json:"avgFoodRating"`
	TotalReviews       int     `json:"totalReviews"`
}

type RestaurantRatings struct {
	Ratings []Rating `json:"ratings"`
	Summary Summary  `json:"summary"`
}
