package order

import (
	"errors"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

var ErrPositionIsNotConstructed = errors.New("Position must be created via Order.AddPosition or RestorePosition")

// PositionData is the caller-editable content of a line item. Price, paid and
// tip are independently optional: an unpaid position differs from one paid
// with zero.
type PositionData struct {
	Name  string
	Meal  string
	Price *kernel.Money
	Paid  *kernel.Money
	Tip   *kernel.Money
}

func (d PositionData) Validate() error {
	return errors.Join(
		requireNotBlank("name", d.Name),
		limitLength("name", d.Name),
		requireNotBlank("meal", d.Meal),
		validateOptionalMoney(d.Price),
		validateOptionalMoney(d.Paid),
		validateOptionalMoney(d.Tip),
	)
}

func validateOptionalMoney(m *kernel.Money) error {
	if m == nil {
		return nil
	}
	return m.Validate()
}

// Position is a line item. Its ordinal fixes the insertion order and thereby
// the index shown to users; it carries its own version token.
type Position struct {
	id      kernel.UUID
	ordinal int
	version kernel.UUID
	audit   Audit
	data    PositionData

	isConstructed bool
}

// RestorePosition rebuilds a persisted position.
func RestorePosition(id kernel.UUID, ordinal int, version kernel.UUID, audit Audit, data PositionData) (*Position, error) {
	if err := errors.Join(id.Validate(), version.Validate()); err != nil {
		return nil, err
	}
	return &Position{
		id:            id,
		ordinal:       ordinal,
		version:       version,
		audit:         audit,
		data:          data,
		isConstructed: true,
	}, nil
}

func (p *Position) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPositionIsNotConstructed
	}
	return nil
}

func (p *Position) ID() kernel.UUID {
	return p.id
}

func (p *Position) Ordinal() int {
	return p.ordinal
}

func (p *Position) Version() kernel.UUID {
	return p.version
}

func (p *Position) Audit() Audit {
	return p.audit
}

func (p *Position) Data() PositionData {
	return p.data
}

func (p *Position) Name() string {
	return p.data.Name
}

func (p *Position) Meal() string {
	return p.data.Meal
}

func (p *Position) Price() *kernel.Money {
	return p.data.Price
}

func (p *Position) Paid() *kernel.Money {
	return p.data.Paid
}

func (p *Position) Tip() *kernel.Money {
	return p.data.Tip
}

func (p *Position) checkVersion(expected *kernel.UUID) error {
	if expected == nil || expected.IsEqual(p.version) {
		return nil
	}
	return errs.NewConcurrentUpdateError("order position", p.id.String(), expected.String(), p.version.String())
}

func (p *Position) touch(actor kernel.UUID, now time.Time) {
	p.version = kernel.NewUUID()
	p.audit.UpdatedAt = now
	p.audit.UpdatedBy = actor
}
