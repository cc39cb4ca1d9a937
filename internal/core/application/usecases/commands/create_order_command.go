package commands

import (
	"errors"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand opens a new order for a restaurant and day.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID
	targetDate   time.Time
	actor        kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated CreateOrderCommand. The target
// date is normalized to midnight UTC by the domain.
func NewCreateOrderCommand(restaurantID kernel.UUID, targetDate time.Time, actor kernel.UUID) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setTargetDate(targetDate),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) TargetDate() time.Time {
	return c.targetDate
}

func (c CreateOrderCommand) Actor() kernel.UUID {
	return c.actor
}

func (c *CreateOrderCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setTargetDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("targetDate")
	}
	c.targetDate = date
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
