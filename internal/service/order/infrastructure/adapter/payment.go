package adapter

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

var (
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")

	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"

	minCardDigits    = 12
	minAccountDigits = 6
	declinedCardTail = "00"
	emptyAccountTail = "999999"
)

// CreditCardPayment 模拟信用卡扣款。卡号以 00 结尾视为额度不足。
type CreditCardPayment struct {
	cardNumber string
	expiry     string
}

func NewCreditCardPayment(cardNumber, expiry string) (*CreditCardPayment, error) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(cardNumber)
	if len(number) < minCardDigits {
		return nil, errors.Wrapf(ErrInvalidPaymentDetails, "card number needs at least %d digits", minCardDigits)
	}
	if !expiryPattern.MatchString(expiry) {
		return nil, errors.Wrapf(ErrInvalidPaymentDetails, "expiry %q is not MM/YY", expiry)
	}
	return &CreditCardPayment{cardNumber: number, expiry: expiry}, nil
}

func (c *CreditCardPayment) Pay(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &domain.PaymentError{Method: MethodCard, Reason: "non-positive amount"}
	}
	if strings.HasSuffix(c.cardNumber, declinedCardTail) {
		return &domain.PaymentError{Method: MethodCard, Reason: "card declined: insufficient balance or limit exceeded"}
	}

	logger.Ctx(ctx).Info().
		Str("card", maskTail(c.cardNumber, 4)).
		Str("amount", amount.String()).
		Msg("Card payment approved")
	return nil
}

// BankTransferPayment 模拟银行转账。账号以 999999 结尾视为余额不足。
type BankTransferPayment struct {
	bankName      string
	accountNumber string
}

func NewBankTransferPayment(bankName, accountNumber string) (*BankTransferPayment, error) {
	bankName = strings.TrimSpace(bankName)
	accountNumber = strings.TrimSpace(accountNumber)
	if bankName == "" {
		return nil, errors.Wrap(ErrInvalidPaymentDetails, "bank name is required")
	}
	if len(accountNumber) < minAccountDigits {
		return nil, errors.Wrapf(ErrInvalidPaymentDetails, "account number needs at least %d characters", minAccountDigits)
	}
	return &BankTransferPayment{bankName: bankName, accountNumber: accountNumber}, nil
}

func (b *BankTransferPayment) Pay(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &domain.PaymentError{Method: MethodBankTransfer, Reason: "non-positive amount"}
	}
	if strings.HasSuffix(b.accountNumber, emptyAccountTail) {
		return &domain.PaymentError{Method: MethodBankTransfer, Reason: "insufficient account balance"}
	}

	logger.Ctx(ctx).Info().
		Str("bank", b.bankName).
		Str("account", maskTail(b.accountNumber, 4)).
		Str("amount", amount.String()).
		Msg("Bank transfer completed")
	return nil
}

// NewPaymentMethod 按 method 创建对应的支付策略，只使用该方式需要的字段。
func NewPaymentMethod(method, cardNumber, expiry, bankName, accountNumber string) (domain.PaymentMethod, error) {
	switch method {
	case MethodCard:
		card, err := NewCreditCardPayment(cardNumber, expiry)
		if err != nil {
			return nil, err
		}
		return card, nil
	case MethodBankTransfer:
		transfer, err := NewBankTransferPayment(bankName, accountNumber)
		if err != nil {
			return nil, err
		}
		return transfer, nil
	default:
		return nil, errors.Wrapf(ErrUnknownPaymentMethod, "%q", method)
	}
}

func maskTail(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return strings.Repeat("*", len(s)-keep) + s[len(s)-keep:]
}
