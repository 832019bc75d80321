package port

import (
	"context"

	"shopflow/internal/service/order/domain"
)

// OrderEventPublisher 是订单事件的出站端口。
// 发布失败不影响下单结果，调用方只记录日志。
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
	PublishOrderFailed(ctx context.Context, event domain.OrderPlacementFailed) error
}
