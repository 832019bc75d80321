package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"shopflow/internal/service/order/domain"
	"shopflow/internal/service/order/domain/mock"
)

type stubPublisher struct {
	placed []domain.OrderPlaced
	err    error
}

func (p *stubPublisher) PublishOrderPlaced(_ context.Context, e domain.OrderPlaced) error {
	p.placed = append(p.placed, e)
	return p.err
}

func (p *stubPublisher) PublishOrderFailed(context.Context, domain.OrderPlacementFailed) error {
	return nil
}

func newOrderContext(t *testing.T, pay domain.PaymentMethod, ship domain.DeliveryMethod, items ...*domain.Product) *OrderContext {
	t.Helper()
	customer, err := domain.NewCustomer("C-1", "Kim", "kim@example.com", "010", "Seoul")
	require.NoError(t, err)
	order, err := domain.NewOrder("ORD-1", customer, pay, ship)
	require.NoError(t, err)
	return &OrderContext{
		Ctx:    context.Background(),
		Order:  order,
		Items:  items,
		Tracer: noop.NewTracerProvider().Tracer("test"),
	}
}

func product(t *testing.T, id string, stock int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, "item-"+id, decimal.NewFromInt(1000), stock)
	require.NoError(t, err)
	return p
}

func buildChain() Handler {
	chain := new(ReservationHandler)
	chain.SetNext(new(PaymentHandler)).
		SetNext(new(DeliveryHandler)).
		SetNext(new(NotificationHandler))
	return chain
}

func TestTriggerCompensation_RunsAllInReverseOrder(t *testing.T) {
	orderCtx := newOrderContext(t, mock.NewMockPaymentMethod(gomock.NewController(t)), mock.NewMockDeliveryMethod(gomock.NewController(t)))

	var ran []string
	add := func(target string, err error) {
		orderCtx.AddCompensation(Compensation{
			Action: "Test",
			Target: target,
			Undo: func(context.Context) error {
				ran = append(ran, target)
				return err
			},
		})
	}
	add("first", nil)
	add("second", errors.New("boom"))
	add("third", nil)
	require.Equal(t, 3, orderCtx.PendingCompensations())

	report := orderCtx.TriggerCompensation(context.Background())

	assert.Equal(t, []string{"third", "second", "first"}, ran)
	assert.Equal(t, CompensationReport{Attempted: 3, Failed: 1}, report)
	assert.Equal(t, 0, orderCtx.PendingCompensations())
}

func TestChain_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	pay := mock.NewMockPaymentMethod(ctrl)
	ship := mock.NewMockDeliveryMethod(ctrl)
	pay.EXPECT().Pay(gomock.Any(), gomock.Any()).Return(nil)
	ship.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)

	a, b := product(t, "A", 2), product(t, "B", 1)
	orderCtx := newOrderContext(t, pay, ship, a, b, a)
	pub := &stubPublisher{}
	orderCtx.Publisher = pub

	require.NoError(t, buildChain().Handle(orderCtx))

	assert.Equal(t, domain.StateShipped, orderCtx.Order.State())
	assert.Equal(t, 0, a.StockQuantity())
	assert.Equal(t, 0, b.StockQuantity())
	assert.Equal(t, 3, orderCtx.PendingCompensations())
	require.Len(t, pub.placed, 1)
	assert.Equal(t, []string{"A", "B", "A"}, pub.placed[0].Items)
}

func TestChain_NotificationFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	pay := mock.NewMockPaymentMethod(ctrl)
	ship := mock.NewMockDeliveryMethod(ctrl)
	pay.EXPECT().Pay(gomock.Any(), gomock.Any()).Return(nil)
	ship.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)

	orderCtx := newOrderContext(t, pay, ship, product(t, "A", 1))
	orderCtx.Publisher = &stubPublisher{err: errors.New("broker down")}

	require.NoError(t, buildChain().Handle(orderCtx))
	assert.Equal(t, domain.StateShipped, orderCtx.Order.State())
}

func TestChain_FailuresReportStageAndCompensateExactly(t *testing.T) {
	tests := []struct {
		name      string
		stocks    []int
		pick      []int
		payErr    error
		payTimes  int
		shipErr   error
		shipTimes int
		wantStage domain.Stage
		wantComps int
	}{
		{
			name:      "reservation",
			stocks:    []int{1},
			pick:      []int{0, 0},
			wantStage: domain.StageReservation,
			wantComps: 1,
		},
		{
			name:      "payment",
			stocks:    []int{3, 3},
			pick:      []int{0, 1, 1},
			payErr:    &domain.PaymentError{Method: "card", Reason: "declined"},
			payTimes:  1,
			wantStage: domain.StagePayment,
			wantComps: 3,
		},
		{
			name:      "delivery",
			stocks:    []int{2},
			pick:      []int{0},
			payTimes:  1,
			shipErr:   &domain.DeliveryError{Method: "express", Reason: "no cold items"},
			shipTimes: 1,
			wantStage: domain.StageDelivery,
			wantComps: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			pay := mock.NewMockPaymentMethod(ctrl)
			ship := mock.NewMockDeliveryMethod(ctrl)
			pay.EXPECT().Pay(gomock.Any(), gomock.Any()).Return(test.payErr).Times(test.payTimes)
			ship.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(test.shipErr).Times(test.shipTimes)

			var catalog []*domain.Product
			for i, s := range test.stocks {
				catalog = append(catalog, product(t, string(rune('A'+i)), s))
			}
			var items []*domain.Product
			for _, idx := range test.pick {
				items = append(items, catalog[idx])
			}

			orderCtx := newOrderContext(t, pay, ship, items...)
			pub := &stubPublisher{}
			orderCtx.Publisher = pub

			err := buildChain().Handle(orderCtx)
			var placementErr *domain.PlacementError
			require.True(t, errors.As(err, &placementErr))
			assert.Equal(t, test.wantStage, placementErr.Stage)
			assert.Equal(t, "ORD-1", placementErr.OrderID)
			assert.Empty(t, pub.placed)

			report := orderCtx.TriggerCompensation(context.Background())
			assert.Equal(t, test.wantComps, report.Attempted)
			assert.Zero(t, report.Failed)
			for i, p := range catalog {
				assert.Equal(t, test.stocks[i], p.StockQuantity(), "product %s", p.ID)
			}
		})
	}
}
