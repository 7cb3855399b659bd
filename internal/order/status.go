package order

import (
	"fmt"

	errors "github.com/nhatminh-dev/drinkstore/internal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// allowedTransitions is the single source of truth for legal status changes.
// Delivered and Cancelled are terminal. There is deliberately no path back
// from Processing or Shipped to an earlier state.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", errors.NewValidationError(
			fmt.Sprintf("unknown order status %q", s),
			errors.ErrCodeValidationFailed,
		)
	}
	return status, nil
}

func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition applies the status machine. Requesting the current status is a
// no-op success so duplicate settlement deliveries can re-assert Paid without
// erroring; any other target outside the allowed set is rejected and the
// caller must leave the order unmodified.
func Transition(current, target Status) (Status, error) {
	if target == current {
		return current, nil
	}
	if !current.CanTransitionTo(target) {
		return current, errors.NewInvalidTransitionError(string(current), string(target))
	}
	return target, nil
}
