package contract

import (
	"fmt"

	"agritrade/internal/pkg/errs"
)

// Status of a contract.
//
//	Draft    -> Active (activate), Fulfilled, Disputed, Cancelled
//	Active   -> Fulfilled, Disputed, Cancelled
//	Disputed -> Active (resolve), Cancelled
type Status int

const (
	Unknown Status = iota
	Draft
	Active
	Fulfilled
	Cancelled
	Disputed
)

type action string

const (
	actionActivate action = "activate"
	actionFulfill  action = "fulfill"
	actionCancel   action = "cancel"
	actionDispute  action = "dispute"
	actionResolve  action = "resolve"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Draft:     "Draft",
		Active:    "Active",
		Fulfilled: "Fulfilled",
		Cancelled: "Cancelled",
		Disputed:  "Disputed",
	}
}

func getTransitions() map[Status]map[action]Status {
	//nolint:exhaustive // Fulfilled and Cancelled are terminal
	return map[Status]map[action]Status{
		Draft: {
			actionActivate: Active,
			actionFulfill:  Fulfilled,
			actionCancel:   Cancelled,
			actionDispute:  Disputed,
		},
		Active: {
			actionFulfill: Fulfilled,
			actionCancel:  Cancelled,
			actionDispute: Disputed,
		},
		Disputed: {
			actionResolve: Active,
			actionCancel:  Cancelled,
		},
	}
}

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

func (s Status) IsTerminal() bool {
	return s == Fulfilled || s == Cancelled
}

func (s Status) next(a action) (Status, error) {
	if to, ok := getTransitions()[s][a]; ok {
		return to, nil
	}
	return Unknown, errs.NewInvalidTransitionError("contract", s.String(), string(a))
}
