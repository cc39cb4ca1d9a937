package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

// maxTextLength bounds the names stored in varchar(255) columns.
const maxTextLength = 255

// MoneyCollectionType is how the collector gathers the money.
type MoneyCollectionType string

const (
	CollectionUnset  MoneyCollectionType = ""
	CollectionPaypal MoneyCollectionType = "PAYPAL"
	CollectionCash   MoneyCollectionType = "BAR"
)

func (t MoneyCollectionType) Validate() error {
	switch t {
	case CollectionUnset, CollectionPaypal, CollectionCash:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("moneyCollectionType", fmt.Errorf("%q is not a valid collection type", string(t)))
}

// Info is the organisational metadata of an order. It is replaced as a whole.
type Info struct {
	Orderer             string
	Fetcher             string
	MoneyCollector      string
	MoneyCollectionType MoneyCollectionType
	ClosingTime         *time.Time
	OrderText           string
	MaxMeals            *int
}

func (i Info) Validate() error {
	var maxErr error
	if i.MaxMeals != nil && *i.MaxMeals <= 0 {
		maxErr = errs.NewValueIsInvalidErrorWithCause("maxMeals", fmt.Errorf("%d is not greater than 0", *i.MaxMeals))
	}
	return errors.Join(
		maxErr,
		i.MoneyCollectionType.Validate(),
		limitLength("orderer", i.Orderer),
		limitLength("fetcher", i.Fetcher),
		limitLength("moneyCollector", i.MoneyCollector),
	)
}

// validateLockable reports every blank participant needed to place the order.
func (i Info) validateLockable() error {
	return errors.Join(
		requireNotBlank("orderer", i.Orderer),
		requireNotBlank("fetcher", i.Fetcher),
		requireNotBlank("moneyCollector", i.MoneyCollector),
	)
}

func (i Info) allowsMeals(count int) bool {
	return i.MaxMeals == nil || count <= *i.MaxMeals
}

func requireNotBlank(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func limitLength(name, value string) error {
	if n := utf8.RuneCountInString(value); n > maxTextLength {
		return errs.NewValueIsOutOfRangeError(name, n, 0, maxTextLength)
	}
	return nil
}
