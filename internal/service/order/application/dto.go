package application

import "shopflow/internal/service/order/domain"

// PlaceOrderRequest 是下单用例的输入数据
type PlaceOrderRequest struct {
	Customer   CustomerRequest `json:"customer"`
	ProductIDs []string        `json:"product_ids"`
	Payment    PaymentRequest  `json:"payment"`
	Delivery   string          `json:"delivery"`
}

type CustomerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PaymentRequest 描述支付方式，method 为 card 或 bank_transfer。
type PaymentRequest struct {
	Method        string `json:"method"`
	CardNumber    string `json:"card_number,omitempty"`
	Expiry        string `json:"expiry,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// PlaceOrderResponse 是下单用例的输出数据
type PlaceOrderResponse struct {
	OrderID string       `json:"order_id"`
	Status  domain.State `json:"status"`
	Total   string       `json:"total"`
	Summary string       `json:"summary"`
}

type ProductView struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Kind            domain.Kind `json:"kind"`
	Price           string      `json:"price"`
	DiscountedPrice string      `json:"discounted_price"`
	Description     string      `json:"description"`
	Stock           int         `json:"stock"`
}

func ToPlaceOrderResponse(o *domain.Order) *PlaceOrderResponse {
	return &PlaceOrderResponse{
		OrderID: o.ID(),
		Status:  o.State(),
		Total:   o.Total().String(),
		Summary: o.Summary(),
	}
}

func ToProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Kind:            p.Kind,
		Price:           p.Price.String(),
		DiscountedPrice: p.DiscountedPrice().String(),
		Description:     p.Description,
		Stock:           p.StockQuantity(),
	}
}
