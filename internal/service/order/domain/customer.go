package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// Customer 是下单人的身份信息，订单只读取它。
type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

func NewCustomer(id, name, email, phone, address string) (Customer, error) {
	c := Customer{
		ID:      strings.TrimSpace(id),
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}

	switch {
	case c.ID == "":
		return Customer{}, errors.Wrap(ErrInvalidCustomer, "id is required")
	case c.Name == "":
		return Customer{}, errors.Wrap(ErrInvalidCustomer, "name is required")
	case !strings.Contains(c.Email, "@"):
		return Customer{}, errors.Wrapf(ErrInvalidCustomer, "email %q is malformed", c.Email)
	case c.Phone == "":
		return Customer{}, errors.Wrap(ErrInvalidCustomer, "phone is required")
	case c.Address == "":
		return Customer{}, errors.Wrap(ErrInvalidCustomer, "address is required")
	}
	return c, nil
}
