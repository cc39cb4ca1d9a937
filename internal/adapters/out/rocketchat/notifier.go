package rocketchat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"

	"github.com/mattn/go-runewidth"
)

// Sender posts one chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// RestaurantNames resolves the restaurant shown in a message.
type RestaurantNames interface {
	Name(ctx context.Context, id kernel.UUID) (string, error)
}

// Notifier turns lifecycle events into chat messages linking to the order
// page of the web client.
type Notifier struct {
	sender      Sender
	restaurants RestaurantNames
	webBaseURL  string
	logger      *slog.Logger
}

// NewNotifier creates a notifier linking messages to webBaseURL.
func NewNotifier(sender Sender, restaurants RestaurantNames, webBaseURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		restaurants: restaurants,
		webBaseURL:  strings.TrimSuffix(webBaseURL, "/"),
		logger:      logger.With("component", "chat_notifier"),
	}
}

func (n *Notifier) Observer() observers.Observer {
	return observers.Observer{
		Name: "chat_notification",
		Kinds: []observers.EventKind{
			observers.OrderCreated,
			observers.OrderLocked,
			observers.OrderReopened,
			observers.OrderOrdered,
			observers.OrderDelivered,
			observers.OrderRevoked,
		},
		Handle: n.handle,
	}
}

func (n *Notifier) handle(ctx context.Context, event observers.Event) error {
	if event.Order == nil {
		return errors.New("event carries no order")
	}

	restaurant, err := n.restaurants.Name(ctx, event.Order.RestaurantID())
	if err != nil {
		return fmt.Errorf("restaurant of order %s: %w", event.OrderID, err)
	}

	text := n.Message(event.Kind, event.Order, restaurant)
	if text == "" {
		return nil
	}

	n.logger.InfoContext(ctx, "Sending chat notification", "event", event.Kind.String(), "order_id", event.OrderID.String())
	return n.sender.Send(ctx, text)
}

// Message renders the chat text for kind, or "" if kind is not announced.
func (n *Notifier) Message(kind observers.EventKind, o *order.Order, restaurant string) string {
	link := fmt.Sprintf("[order](%s/order/%s)", n.webBaseURL, o.ID())

	switch kind {
	case observers.OrderCreated:
		return fmt.Sprintf("New %s opened at restaurant %s.", link, restaurant)
	case observers.OrderLocked:
		return fmt.Sprintf("The %s at restaurant %s is locked so it can be placed. No new meals can be added.", link, restaurant)
	case observers.OrderReopened:
		return fmt.Sprintf("The %s at restaurant %s is unlocked again. Meals can be added.", link, restaurant)
	case observers.OrderOrdered:
		return fmt.Sprintf("The %s at restaurant %s has been placed. No more changes possible.\n"+
			"This was ordered:\n```\n%s\n```\n```\n%s\n```",
			link, restaurant, positionTable(o.Positions()), totals(o.Positions()))
	case observers.OrderDelivered:
		return fmt.Sprintf("@here Food of the %s from %s has arrived!", link, restaurant)
	case observers.OrderRevoked:
		return fmt.Sprintf("The %s at restaurant %s has been revoked. Maybe the restaurant is closed or something else went wrong.", link, restaurant)
	}
	return ""
}

type column struct {
	title string
	width int
	right bool
}

var tableColumns = []column{
	{title: "Name", width: 16, right: true},
	{title: "Meal", width: 32},
	{title: "Price", width: 8, right: true},
	{title: "Paid", width: 4},
}

func positionTable(positions []*order.Position) string {
	sorted := slices.Clone(positions)
	slices.SortStableFunc(sorted, func(a, b *order.Position) int { return cmp.Compare(a.Meal(), b.Meal()) })

	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, tableRow("Name", "Meal", "Price", "Paid"))
	for _, p := range sorted {
		paid := "no"
		if p.Paid() != nil && p.Paid().Decimal().IsPositive() {
			paid = "yes"
		}
		lines = append(lines, tableRow(p.Name(), p.Meal(), euros(p.Price()), paid))
	}
	return strings.Join(lines, "\n")
}

func tableRow(cells ...string) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		c := tableColumns[i]
		cell = runewidth.Truncate(cell, c.width, "…")
		if c.right {
			out[i] = runewidth.FillLeft(cell, c.width)
		} else {
			out[i] = runewidth.FillRight(cell, c.width)
		}
	}
	return strings.TrimRight(strings.Join(out, " | "), " ")
}

func totals(positions []*order.Position) string {
	var prices, paid, tips []*kernel.Money
	for _, p := range positions {
		prices = append(prices, p.Price())
		paid = append(paid, p.Paid())
		tips = append(tips, p.Tip())
	}

	sumPrice, sumPaid, sumTip := kernel.SumMoney(prices...), kernel.SumMoney(paid...), kernel.SumMoney(tips...)
	return fmt.Sprintf("Total: %9s\nPaid:  %9s\nTip:   %9s", euros(&sumPrice), euros(&sumPaid), euros(&sumTip))
}

func euros(m *kernel.Money) string {
	if m == nil {
		return "-"
	}
	return m.String() + " €"
}
