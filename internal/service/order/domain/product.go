package domain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Kind 区分商品的具体变体。
type Kind string

const (
	KindGeneral     Kind = "general"
	KindFood        Kind = "food"
	KindClothing    Kind = "clothing"
	KindElectronics Kind = "electronics"
)

var hundred = decimal.NewFromInt(100)

// Product 是目录中的一个可售商品，库存由内部的 Stock 台账维护。
type Product struct {
	ID          string
	Name        string
	Kind        Kind
	Price       decimal.Decimal
	Description string

	// 变体属性，只有对应 Kind 才会设置
	Refrigerated   bool
	Size           string
	Material       string
	WarrantyMonths int

	discountPercent int
	stock           *Stock
}

type ProductOption func(*Product)

// WithDiscount 设置折扣百分比，范围 [0, 100]。
func WithDiscount(percent int) ProductOption {
	return func(p *Product) {
		p.discountPercent = percent
	}
}

func WithDescription(desc string) ProductOption {
	return func(p *Product) {
		p.Description = desc
	}
}

// NewProduct 创建一个普通商品。
func NewProduct(id, name string, price decimal.Decimal, stock int, opts ...ProductOption) (*Product, error) {
	p := &Product{
		ID:    id,
		Name:  name,
		Kind:  KindGeneral,
		Price: price,
		stock: NewStock(stock),
	}
	for _, opt := range opts {
		opt(p)
	}

	switch {
	case id == "":
		return nil, errors.Wrap(ErrInvalidProduct, "id is required")
	case name == "":
		return nil, errors.Wrap(ErrInvalidProduct, "name is required")
	case price.IsNegative():
		return nil, errors.Wrapf(ErrInvalidProduct, "price %s is negative", price)
	case stock < 0:
		return nil, errors.Wrapf(ErrInvalidProduct, "stock %d is negative", stock)
	case p.discountPercent < 0 || p.discountPercent > 100:
		return nil, errors.Wrapf(ErrInvalidProduct, "discount %d%% out of range", p.discountPercent)
	}
	return p, nil
}

// NewFood 创建食品。需要冷藏时描述会追加 refrigerated 标记，供配送规则识别。
func NewFood(id, name string, price decimal.Decimal, stock int, refrigerated bool, opts ...ProductOption) (*Product, error) {
	p, err := NewProduct(id, name, price, stock, opts...)
	if err != nil {
		return nil, err
	}
	p.Kind = KindFood
	p.Refrigerated = refrigerated
	if refrigerated {
		p.Description = appendDetail(p.Description, "refrigerated")
	}
	return p, nil
}

func NewClothing(id, name string, price decimal.Decimal, stock int, size, material string, opts ...ProductOption) (*Product, error) {
	if size == "" || material == "" {
		return nil, errors.Wrap(ErrInvalidProduct, "clothing requires size and material")
	}
	p, err := NewProduct(id, name, price, stock, opts...)
	if err != nil {
		return nil, err
	}
	p.Kind = KindClothing
	p.Size = size
	p.Material = material
	p.Description = appendDetail(p.Description, fmt.Sprintf("size: %s, material: %s", size, material))
	return p, nil
}

func NewElectronics(id, name string, price decimal.Decimal, stock int, warrantyMonths int, opts ...ProductOption) (*Product, error) {
	if warrantyMonths < 0 {
		return nil, errors.Wrapf(ErrInvalidProduct, "warranty %d months is negative", warrantyMonths)
	}
	p, err := NewProduct(id, name, price, stock, opts...)
	if err != nil {
		return nil, err
	}
	p.Kind = KindElectronics
	p.WarrantyMonths = warrantyMonths
	p.Description = appendDetail(p.Description, fmt.Sprintf("warranty: %d months", warrantyMonths))
	return p, nil
}

func appendDetail(desc, detail string) string {
	if desc == "" {
		return detail
	}
	return desc + " | " + detail
}

func (p *Product) DiscountPercent() int { return p.discountPercent }

// DiscountedPrice 返回折后单价，没有折扣时等于 Price。
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.discountPercent == 0 {
		return p.Price
	}
	keep := hundred.Sub(decimal.NewFromInt(int64(p.discountPercent)))
	return p.Price.Mul(keep).Div(hundred)
}

func (p *Product) StockQuantity() int {
	return p.stock.Quantity()
}

// AdjustStock 调整库存。出库会使库存为负时返回 *StockUnavailableError，库存不变。
func (p *Product) AdjustStock(delta int) error {
	before, ok := p.stock.Adjust(delta)
	if !ok {
		return &StockUnavailableError{ProductID: p.ID, ProductName: p.Name, Current: before, Requested: -delta}
	}
	return nil
}
