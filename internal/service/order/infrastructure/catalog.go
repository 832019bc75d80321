package infrastructure

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shopflow/internal/pkg/bootstrap"
	"shopflow/internal/service/order/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("duplicate product id")
)

// Catalog 是进程内的商品目录，在 main 中构建一次后显式传递。
// 目录本身在构建后只读，库存变化由 Product 内部的台账负责。
type Catalog struct {
	byID  map[string]*domain.Product
	order []*domain.Product
}

func NewCatalog(products ...*domain.Product) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*domain.Product, len(products))}
	for _, p := range products {
		if p == nil {
			return nil, domain.ErrNilProduct
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, errors.Wrapf(ErrDuplicateProduct, "%q", p.ID)
		}
		c.byID[p.ID] = p
		c.order = append(c.order, p)
	}
	return c, nil
}

// NewCatalogFromConfig 按配置中的种子数据创建商品。
func NewCatalogFromConfig(seeds []bootstrap.ProductConfig) (*Catalog, error) {
	products := make([]*domain.Product, 0, len(seeds))
	for i, s := range seeds {
		p, err := productFromConfig(s)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog[%d]", i)
		}
		products = append(products, p)
	}
	return NewCatalog(products...)
}

func productFromConfig(s bootstrap.ProductConfig) (*domain.Product, error) {
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrInvalidProduct, "price %q: %v", s.Price, err)
	}

	opts := []domain.ProductOption{domain.WithDescription(s.Description)}
	if s.DiscountPercent != 0 {
		opts = append(opts, domain.WithDiscount(s.DiscountPercent))
	}

	switch domain.Kind(s.Kind) {
	case domain.KindGeneral, "":
		return domain.NewProduct(s.ID, s.Name, price, s.Stock, opts...)
	case domain.KindFood:
		return domain.NewFood(s.ID, s.Name, price, s.Stock, s.Refrigerated, opts...)
	case domain.KindClothing:
		return domain.NewClothing(s.ID, s.Name, price, s.Stock, s.Size, s.Material, opts...)
	case domain.KindElectronics:
		return domain.NewElectronics(s.ID, s.Name, price, s.Stock, s.WarrantyMonths, opts...)
	default:
		return nil, errors.Wrapf(domain.ErrInvalidProduct, "unknown kind %q", s.Kind)
	}
}

func (c *Catalog) Find(id string) (*domain.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, errors.Wrapf(ErrProductNotFound, "%q", id)
	}
	return p, nil
}

// List 按注册顺序返回所有商品。
func (c *Catalog) List() []*domain.Product {
	out := make([]*domain.Product, len(c.order))
	copy(out, c.order)
	return out
}
