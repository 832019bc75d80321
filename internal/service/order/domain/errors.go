package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNilProduct        = errors.New("product must not be nil")
	ErrNonPositiveAmount = errors.New("order total must be positive")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidCustomer   = errors.New("invalid customer")
	ErrInvalidOrder      = errors.New("invalid order")
)

// StockUnavailableError 表示库存不足以完成本次出库。
type StockUnavailableError struct {
	ProductID   string
	ProductName string
	Current     int
	Requested   int
}

func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("stock unavailable for %s (%s): current %d, requested outflow %d",
		e.ProductName, e.ProductID, e.Current, e.Requested)
}

// InvalidTransitionError 表示在当前状态下不允许该操作。
type InvalidTransitionError struct {
	From      State
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order in state %s", e.Attempted, e.From)
}

// PaymentError 由支付策略返回。
type PaymentError struct {
	Method string
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s payment rejected: %s", e.Method, e.Reason)
}

// DeliveryError 由配送策略返回。
type DeliveryError struct {
	Method string
	Reason string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery rejected: %s", e.Method, e.Reason)
}

// PlacementError 是下单流程对外暴露的唯一失败类型。
type PlacementError struct {
	OrderID string
	Stage   Stage
	Cause   error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("order placement failed at %s: %v", e.Stage, e.Cause)
}

func (e *PlacementError) Unwrap() error { return e.Cause }
