package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=strategy.go -destination=mock/strategy_mock.go -package=mock

// PaymentMethod 是支付策略。amount <= 0 时实现应当返回 *PaymentError。
type PaymentMethod interface {
	Pay(ctx context.Context, amount decimal.Decimal) error
}

// DeliveryMethod 是配送策略，只读取订单摘要，不修改订单。
type DeliveryMethod interface {
	Deliver(ctx context.Context, summary string) error
}
