package order

import (
	"fmt"

	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

// Transition is an explicit lifecycle step requested by a caller or by
// housekeeping. Implicit steps caused by position edits are not transitions.
type Transition int

const (
	Lock Transition = iota + 1
	Reopen
	MarkOrdered
	MarkDelivered
	Revoke
	Archive
)

type transitionRule struct {
	name string
	from []Status
	to   Status
}

var transitionRules = map[Transition]transitionRule{
	Lock:          {name: "lock", from: []Status{Open}, to: Locked},
	Reopen:        {name: "reopen", from: []Status{Locked}, to: Open},
	MarkOrdered:   {name: "mark ordered", from: []Status{Locked}, to: Ordered},
	MarkDelivered: {name: "mark delivered", from: []Status{Ordered}, to: Delivered},
	Revoke:        {name: "revoke", from: []Status{Open, Locked, Ordered}, to: Revoked},
	Archive:       {name: "archive", from: []Status{Ordered, Delivered}, to: Archived},
}

func (t Transition) String() string {
	if rule, ok := transitionRules[t]; ok {
		return rule.name
	}
	return "unknown"
}

func (t Transition) Validate() error {
	if _, ok := transitionRules[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("%d is not a valid transition", t))
	}
	return nil
}

// AllowedFrom lists the states t may start from.
func (t Transition) AllowedFrom() []Status {
	return transitionRules[t].from
}

func (t Transition) Target() Status {
	return transitionRules[t].to
}

// Apply returns the state reached by taking t from s.
func (s Status) Apply(t Transition) (Status, error) {
	if err := t.Validate(); err != nil {
		return Unknown, err
	}
	rule := transitionRules[t]
	if err := s.require(rule.name, rule.from...); err != nil {
		return s, err
	}
	return rule.to, nil
}
