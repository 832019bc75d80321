package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AddressMarker 是摘要中地址行的前缀，配送策略依赖它。
const AddressMarker = "address:"

// Order 是订单聚合的根实体。
// 商品引用不拥有库存，权威数量在各 Product 的台账上。
type Order struct {
	id        string
	customer  Customer
	items     []*Product
	payment   PaymentMethod
	delivery  DeliveryMethod
	state     State
	createdAt time.Time
}

// NewOrder 创建一个 PENDING 状态的空订单。客户必须有 ID 和配送地址。
func NewOrder(id string, customer Customer, payment PaymentMethod, delivery DeliveryMethod) (*Order, error) {
	switch {
	case id == "":
		return nil, errors.Wrap(ErrInvalidOrder, "id is required")
	case strings.TrimSpace(customer.ID) == "":
		return nil, errors.Wrap(ErrInvalidOrder, "customer id is required")
	case strings.TrimSpace(customer.Address) == "":
		return nil, errors.Wrap(ErrInvalidOrder, "customer address is required")
	case payment == nil:
		return nil, errors.Wrap(ErrInvalidOrder, "payment method is required")
	case delivery == nil:
		return nil, errors.Wrap(ErrInvalidOrder, "delivery method is required")
	}

	return &Order{
		id:        id,
		customer:  customer,
		payment:   payment,
		delivery:  delivery,
		state:     StatePending,
		createdAt: time.Now(),
	}, nil
}

func (o *Order) ID() string           { return o.id }
func (o *Order) Customer() Customer   { return o.customer }
func (o *Order) State() State         { return o.state }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items 返回已预占商品的副本。
func (o *Order) Items() []*Product {
	items := make([]*Product, len(o.items))
	copy(items, o.items)
	return items
}

// Reserve 从商品库存中预占一件并加入订单。
// 同一商品可以重复预占，每次多占一件。失败时订单不变。
func (o *Order) Reserve(p *Product) error {
	if p == nil {
		return ErrNilProduct
	}
	if err := p.AdjustStock(-1); err != nil {
		return err
	}
	o.items = append(o.items, p)
	return nil
}

// Total 是所有商品折后价之和，空订单为 0。
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.items {
		total = total.Add(p.DiscountedPrice())
	}
	return total
}

// Pay 只能在 PENDING 状态调用。支付失败时状态保持不变。
func (o *Order) Pay(ctx context.Context) error {
	if !CanTransition(o.state, StatePaid) {
		return &InvalidTransitionError{From: o.state, Attempted: "pay"}
	}

	total := o.Total()
	if !total.IsPositive() {
		return ErrNonPositiveAmount
	}

	if err := o.payment.Pay(ctx, total); err != nil {
		return errors.Wrap(err, "payment failed")
	}
	o.state = StatePaid
	return nil
}

// Ship 只能在 PAID 状态调用。配送失败时状态保持不变。
func (o *Order) Ship(ctx context.Context) error {
	if !CanTransition(o.state, StateShipped) {
		return &InvalidTransitionError{From: o.state, Attempted: "ship"}
	}

	if err := o.delivery.Deliver(ctx, o.Summary()); err != nil {
		return errors.Wrap(err, "delivery failed")
	}
	o.state = StateShipped
	return nil
}

// Summary 生成配送用的订单摘要，输出是确定的。
func (o *Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order: %s, customer: %s (%s)\n", o.id, o.customer.Name, o.customer.ID)
	fmt.Fprintf(&b, "%s %s\n", AddressMarker, o.customer.Address)
	b.WriteString("items: ")
	for i, p := range o.items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%s)", p.Name, p.Description)
	}
	return b.String()
}
