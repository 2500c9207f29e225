package order

import (
	"fmt"

	"agritrade/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Open
	Accepted
	Rejected
	Cancelled
)

type action string

const (
	actionAccept action = "accept"
	actionReject action = "reject"
	actionCancel action = "cancel"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Open:      "Open",
		Accepted:  "Accepted",
		Rejected:  "Rejected",
		Cancelled: "Cancelled",
	}
}

func getTransitions() map[Status]map[action]Status {
	//nolint:exhaustive // Rejected and Cancelled are terminal
	return map[Status]map[action]Status{
		Open:     {actionAccept: Accepted, actionReject: Rejected, actionCancel: Cancelled},
		Accepted: {actionCancel: Cancelled},
	}
}

// Validate rejects Unknown and out of range values read from storage or the wire.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Cancelled
}

func (s Status) next(a action) (Status, error) {
	if to, ok := getTransitions()[s][a]; ok {
		return to, nil
	}
	return Unknown, errs.NewInvalidTransitionError("order", s.String(), string(a))
}
