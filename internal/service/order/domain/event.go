package domain

import "time"

// OrderPlaced 在订单成功发货后发布。
type OrderPlaced struct {
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	Email      string    `json:"email"`
	Items      []string  `json:"items"`
	Total      string    `json:"total"`
	State      State     `json:"state"`
	PlacedAt   time.Time `json:"placedAt"`
}

// OrderPlacementFailed 在下单失败且补偿完成后发布。
type OrderPlacementFailed struct {
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	Email      string    `json:"email"`
	Stage      Stage     `json:"stage"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failedAt"`
}

// NewOrderPlaced 从已发货的订单构造事件。
func NewOrderPlaced(o *Order) OrderPlaced {
	items := make([]string, 0, len(o.items))
	for _, p := range o.items {
		items = append(items, p.ID)
	}
	return OrderPlaced{
		OrderID:    o.id,
		CustomerID: o.customer.ID,
		Email:      o.customer.Email,
		Items:      items,
		Total:      o.Total().String(),
		State:      o.state,
		PlacedAt:   time.Now(),
	}
}

func NewOrderPlacementFailed(customer Customer, err *PlacementError) OrderPlacementFailed {
	return OrderPlacementFailed{
		OrderID:    err.OrderID,
		CustomerID: customer.ID,
		Email:      customer.Email,
		Stage:      err.Stage,
		Reason:     err.Cause.Error(),
		FailedAt:   time.Now(),
	}
}
