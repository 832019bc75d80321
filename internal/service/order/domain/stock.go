package domain

import "sync"

// Stock 是单个商品的库存台账，数量永远不会小于 0。
type Stock struct {
	mu       sync.Mutex
	quantity int
}

func NewStock(quantity int) *Stock {
	return &Stock{quantity: quantity}
}

func (s *Stock) Quantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantity
}

// Adjust 按 delta 调整库存。结果会小于 0 时拒绝并保持原值，不做截断。
// 检查和写入在同一把锁内完成。
func (s *Stock) Adjust(delta int) (before int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before = s.quantity
	if before+delta < 0 {
		return before, false
	}
	s.quantity = before + delta
	return before, true
}
