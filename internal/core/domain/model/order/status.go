package order

import (
	"fmt"
	"slices"

	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The textual form is what gets
// persisted and exposed over the API.
type Status int

const (
	Unknown Status = iota

	New

	Open

	Locked

	Ordered

	Delivered

	Revoked

	Archived
)

var statusNames = map[Status]string{
	New:       "NEW",
	Open:      "OPEN",
	Locked:    "LOCKED",
	Ordered:   "ORDERED",
	Delivered: "DELIVERED",
	Revoked:   "REVOKED",
	Archived:  "ARCHIVED",
}

// LiveStatuses are the states of which at most one order per restaurant and
// day may exist.
var LiveStatuses = []Status{New, Open, Locked}

// ParseStatus returns the status named s, as written by String.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsOneOf reports whether s equals any of candidates.
func (s Status) IsOneOf(candidates ...Status) bool {
	return slices.Contains(candidates, s)
}

func (s Status) IsLive() bool {
	return s.IsOneOf(LiveStatuses...)
}

// require fails with an InvalidStateError unless s is one of allowed.
func (s Status) require(operation string, allowed ...Status) error {
	if s.IsOneOf(allowed...) {
		return nil
	}
	return errs.NewInvalidStateError(operation, s.String(), StatusNames(allowed...)...)
}

// StatusNames returns the names of statuses in the given order.
func StatusNames(statuses ...Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
