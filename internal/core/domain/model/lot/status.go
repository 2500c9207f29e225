package lot

import (
	"fmt"

	"agritrade/internal/pkg/errs"
)

// Status is the inventory state of a lot.
//
//	Listed ──reserve──> Reserved ──sell──> Sold ──consume──> Consumed
//	  ^                    │                 │
//	  └──────release───────┴─────────────────┘
type Status int

const (
	Unknown Status = iota
	Listed
	Reserved
	Sold
	Consumed
)

type action string

const (
	actionReserve action = "reserve"
	actionSell    action = "sell"
	actionRelease action = "release"
	actionConsume action = "consume"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "Unknown",
		Listed:   "Listed",
		Reserved: "Reserved",
		Sold:     "Sold",
		Consumed: "Consumed",
	}
}

func getTransitions() map[Status]map[action]Status {
	//nolint:exhaustive // Unknown and Consumed have no outgoing transitions
	return map[Status]map[action]Status{
		Listed:   {actionReserve: Reserved},
		Reserved: {actionSell: Sold, actionRelease: Listed},
		Sold:     {actionConsume: Consumed, actionRelease: Listed},
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

func (s Status) next(a action) (Status, error) {
	if to, ok := getTransitions()[s][a]; ok {
		return to, nil
	}
	return Unknown, errs.NewInvalidTransitionError("lot", s.String(), string(a))
}
