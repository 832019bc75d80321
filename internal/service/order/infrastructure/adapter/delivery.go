package adapter

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"shopflow/internal/pkg/bootstrap"
	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

const (
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
)

var (
	ErrInvalidDeliveryRule   = errors.New("invalid delivery rule")
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
)

// 所有规则共享同一个环境，只声明一个 string 变量 summary。
var deliveryEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("summary", cel.StringType))
})

// Rule 是一条 CEL 布尔表达式，结果为 false 时以 Reason 拒绝配送。
type Rule struct {
	Expr   string
	Reason string
}

type compiledRule struct {
	Rule
	prg cel.Program
}

// RuleDelivery 根据订单摘要判断能否配送。摘要中必须包含地址行。
type RuleDelivery struct {
	name  string
	rules []compiledRule
}

func NewRuleDelivery(name string, rules ...Rule) (*RuleDelivery, error) {
	env, err := deliveryEnv()
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}

	d := &RuleDelivery{name: name}
	for _, r := range rules {
		ast, iss := env.Compile(r.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, errors.Wrapf(ErrInvalidDeliveryRule, "%s: %q: %v", name, r.Expr, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, errors.Wrapf(ErrInvalidDeliveryRule, "%s: %q must evaluate to bool", name, r.Expr)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDeliveryRule, "%s: %q: %v", name, r.Expr, err)
		}
		if r.Reason == "" {
			r.Reason = "rule not satisfied: " + r.Expr
		}
		d.rules = append(d.rules, compiledRule{Rule: r, prg: prg})
	}
	return d, nil
}

// NewStandardDelivery 拒绝危险品和需要特殊处理的商品。
func NewStandardDelivery() (*RuleDelivery, error) {
	return NewRuleDelivery(DeliveryStandard, Rule{
		Expr:   `!(summary.contains("hazardous") || summary.contains("handle-with-care"))`,
		Reason: "hazardous or handle-with-care items cannot use standard delivery",
	})
}

// NewExpressDelivery 只接受冷藏或特殊包装的商品。
func NewExpressDelivery() (*RuleDelivery, error) {
	return NewRuleDelivery(DeliveryExpress, Rule{
		Expr:   `summary.contains("refrigerated") || summary.contains("special-packaging")`,
		Reason: "express delivery requires refrigerated or special-packaging items",
	})
}

func (d *RuleDelivery) Name() string { return d.name }

func (d *RuleDelivery) Deliver(ctx context.Context, summary string) error {
	if !hasAddress(summary) {
		return &domain.DeliveryError{Method: d.name, Reason: "summary has no address"}
	}

	vars := map[string]any{"summary": summary}
	for _, r := range d.rules {
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			return &domain.DeliveryError{Method: d.name, Reason: "rule evaluation failed: " + err.Error()}
		}
		if ok, _ := out.Value().(bool); !ok {
			return &domain.DeliveryError{Method: d.name, Reason: r.Reason}
		}
	}

	logger.Ctx(ctx).Info().Str("method", d.name).Msg("Delivery dispatched")
	return nil
}

// hasAddress 要求地址标记之后同一行里有非空白内容。
func hasAddress(summary string) bool {
	_, rest, ok := strings.Cut(summary, domain.AddressMarker)
	if !ok {
		return false
	}
	line, _, _ := strings.Cut(rest, "\n")
	return strings.TrimSpace(line) != ""
}

// DeliveryRegistry 按名字查找配送方式。
type DeliveryRegistry struct {
	methods map[string]domain.DeliveryMethod
}

// NewDeliveryRegistry 注册内置的 standard/express，以及配置中声明的配送方式。
func NewDeliveryRegistry(configured []bootstrap.DeliveryMethodConfig) (*DeliveryRegistry, error) {
	standard, err := NewStandardDelivery()
	if err != nil {
		return nil, err
	}
	express, err := NewExpressDelivery()
	if err != nil {
		return nil, err
	}

	reg := &DeliveryRegistry{methods: map[string]domain.DeliveryMethod{
		DeliveryStandard: standard,
		DeliveryExpress:  express,
	}}

	for _, c := range configured {
		if _, exists := reg.methods[c.Name]; exists {
			return nil, errors.Wrapf(ErrInvalidDeliveryRule, "delivery method %q already registered", c.Name)
		}
		rules := make([]Rule, 0, len(c.Rules))
		for _, r := range c.Rules {
			rules = append(rules, Rule{Expr: r.Expr, Reason: r.Reason})
		}
		m, err := NewRuleDelivery(c.Name, rules...)
		if err != nil {
			return nil, err
		}
		reg.methods[c.Name] = m
	}
	return reg, nil
}

func (r *DeliveryRegistry) Lookup(name string) (domain.DeliveryMethod, error) {
	m, ok := r.methods[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDeliveryMethod, "%q", name)
	}
	return m, nil
}

func (r *DeliveryRegistry) Names() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
