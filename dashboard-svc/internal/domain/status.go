package domain

type OrderStatus string

const (
	StatusNew            OrderStatus = "NEW"
	StatusCooking        OrderStatus = "COOKING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusCompleted      OrderStatus = "COMPLETED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusNew:            {StatusCooking, StatusCancelled},
	StatusCooking:        {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusCompleted},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusCooking, StatusReadyForPickup, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the legal targets from the given status.
func NextStatuses(from OrderStatus) []OrderStatus {
	next := transitions[from]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}
