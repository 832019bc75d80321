package domain

// State 定义了订单的生命周期状态
type State string

const (
	StatePending   State = "PENDING"   // 已创建，等待支付
	StatePaid      State = "PAID"      // 已支付，等待发货
	StateShipped   State = "SHIPPED"   // 已交给配送
	StateDelivered State = "DELIVERED" // 预留，当前流程不会进入
	StateCancelled State = "CANCELLED" // 预留，当前流程不会进入
)

var stateDescriptions = map[State]string{
	StatePending:   "awaiting payment",
	StatePaid:      "payment completed",
	StateShipped:   "in delivery",
	StateDelivered: "delivered",
	StateCancelled: "cancelled",
}

func (s State) Description() string {
	if d, ok := stateDescriptions[s]; ok {
		return d
	}
	return "unknown"
}

// validNext 只允许向前流转。
var validNext = map[State]map[State]bool{
	StatePending: {StatePaid: true},
	StatePaid:    {StateShipped: true},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

// Stage 标识下单流程中失败的步骤。
type Stage string

const (
	StageReservation Stage = "reservation"
	StagePayment     Stage = "payment"
	StageDelivery    Stage = "delivery"
)
