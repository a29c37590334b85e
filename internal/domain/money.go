package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact, non-negative decimal amount. Never float64 for money:
// reserve-price and increment checks are boundary-sensitive, so arithmetic
// has to be exact. The zero value is usable and means "0".
type Money struct {
	amount decimal.Decimal
}

// NewMoney parses a decimal string such as "12.50". Malformed or negative
// input fails with ErrInvalidFormat.
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %q is negative", ErrInvalidFormat, value)
	}
	return Money{amount: d}, nil
}

// MustMoney is NewMoney that panics on invalid input. For constants and tests.
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

func (m Money) LessEqual(other Money) bool {
	return m.amount.LessThanOrEqual(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cmp returns -1, 0 or 1.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) String() string {
	return m.amount.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.amount.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NewMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
