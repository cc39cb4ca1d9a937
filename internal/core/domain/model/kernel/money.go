package kernel

import (
	"fmt"

	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits kept for amounts.
const moneyScale = 2

// maxMoney is the largest amount a numeric(10,2) column holds.
var maxMoney = decimal.RequireFromString("99999999.99")

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount rounded to cents. The currency is implicit.
type Money struct {
	amount decimal.Decimal

	isConstructed bool
}

// NewMoney rounds amount to cents. Negative amounts and amounts beyond
// 99999999.99 are out of range.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	rounded := amount.Round(moneyScale)
	if rounded.GreaterThan(maxMoney) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", maxMoney.StringFixed(moneyScale))
	}
	return Money{amount: rounded, isConstructed: true}, nil
}

// MoneyFromString parses a decimal string such as "8.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(amount)
}

// MoneyFromFloat is NewMoney for a float amount.
func MoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, isConstructed: true}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), isConstructed: true}
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}

// SumMoney adds all present amounts; nil entries count as zero.
func SumMoney(amounts ...*Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		if a != nil {
			total = total.Add(*a)
		}
	}
	return total
}
