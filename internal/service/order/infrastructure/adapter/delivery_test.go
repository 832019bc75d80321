package adapter

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/pkg/bootstrap"
	"shopflow/internal/service/order/domain"
)

func TestStandardDelivery(t *testing.T) {
	d, err := NewStandardDelivery()
	require.NoError(t, err)

	tests := []struct {
		name    string
		summary string
		wantErr bool
	}{
		{name: "plain order", summary: "order: O1, customer: Hong (C1)\naddress: Seoul\nitems: Pen (blue)"},
		{name: "empty", summary: "", wantErr: true},
		{name: "no address marker", summary: "items: Pen", wantErr: true},
		{name: "address word without marker", summary: "no address here", wantErr: true},
		{name: "blank address", summary: "order: O1, customer: Hong (C1)\naddress: \nitems: Pen (blue)", wantErr: true},
		{name: "whitespace address at end", summary: "items: Pen\naddress:   ", wantErr: true},
		{name: "hazardous", summary: "address: Seoul\nitems: Bleach (hazardous)", wantErr: true},
		{name: "handle with care", summary: "address: Busan\nitems: Vase (handle-with-care)", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := d.Deliver(context.Background(), test.summary)
			if !test.wantErr {
				assert.NoError(t, err)
				return
			}
			var deliveryErr *domain.DeliveryError
			require.True(t, errors.As(err, &deliveryErr))
			assert.Equal(t, DeliveryStandard, deliveryErr.Method)
		})
	}
}

func TestExpressDelivery(t *testing.T) {
	d, err := NewExpressDelivery()
	require.NoError(t, err)

	tests := []struct {
		name    string
		summary string
		wantErr bool
	}{
		{name: "refrigerated", summary: "address: Seoul\nitems: Milk (1L | refrigerated)"},
		{name: "special packaging", summary: "address: Seoul\nitems: Cake (special-packaging)"},
		{name: "empty", summary: "", wantErr: true},
		{name: "no address", summary: "items: Milk (refrigerated)", wantErr: true},
		{name: "address only", summary: "address: Seoul", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := d.Deliver(context.Background(), test.summary)
			if test.wantErr {
				var deliveryErr *domain.DeliveryError
				assert.True(t, errors.As(err, &deliveryErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewRuleDelivery_InvalidRules(t *testing.T) {
	_, err := NewRuleDelivery("broken", Rule{Expr: `summary.contains(`})
	assert.True(t, errors.Is(err, ErrInvalidDeliveryRule))

	_, err = NewRuleDelivery("not-bool", Rule{Expr: `size(summary)`})
	assert.True(t, errors.Is(err, ErrInvalidDeliveryRule))

	_, err = NewRuleDelivery("unknown-var", Rule{Expr: `weight > 3`})
	assert.True(t, errors.Is(err, ErrInvalidDeliveryRule))
}

func TestRuleDelivery_DefaultReason(t *testing.T) {
	d, err := NewRuleDelivery("short", Rule{Expr: `size(summary) < 20`})
	require.NoError(t, err)

	err = d.Deliver(context.Background(), "address: a very long street name in the city")
	var deliveryErr *domain.DeliveryError
	require.True(t, errors.As(err, &deliveryErr))
	assert.Equal(t, "rule not satisfied: size(summary) < 20", deliveryErr.Reason)
}

func TestDeliveryRegistry(t *testing.T) {
	reg, err := NewDeliveryRegistry([]bootstrap.DeliveryMethodConfig{{
		Name: "fragile",
		Rules: []bootstrap.RuleConfig{
			{Expr: `summary.contains("fragile")`, Reason: "fragile items only"},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"express", "fragile", "standard"}, reg.Names())

	fragile, err := reg.Lookup("fragile")
	require.NoError(t, err)
	assert.NoError(t, fragile.Deliver(context.Background(), "address: Seoul\nitems: Glass (fragile)"))
	assert.Error(t, fragile.Deliver(context.Background(), "address: Seoul\nitems: Pen"))

	_, err = reg.Lookup("drone")
	assert.True(t, errors.Is(err, ErrUnknownDeliveryMethod))

	_, err = NewDeliveryRegistry([]bootstrap.DeliveryMethodConfig{{Name: DeliveryStandard}})
	assert.True(t, errors.Is(err, ErrInvalidDeliveryRule))
}
