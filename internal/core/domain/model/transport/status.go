package transport

import (
	"fmt"

	"agritrade/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	Assigned
	Accepted
	PickedUp
	InTransit
	Delivered
	Completed
	Cancelled
)

type action string

const (
	actionAssign   action = "assign"
	actionAccept   action = "accept"
	actionPickUp   action = "pick up"
	actionTransit  action = "move in transit"
	actionDeliver  action = "deliver"
	actionComplete action = "complete"
	actionCancel   action = "cancel"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		Accepted:  "Accepted",
		PickedUp:  "PickedUp",
		InTransit: "InTransit",
		Delivered: "Delivered",
		Completed: "Completed",
		Cancelled: "Cancelled",
	}
}

func getTransitions() map[Status]map[action]Status {
	//nolint:exhaustive // Completed and Cancelled are terminal
	return map[Status]map[action]Status{
		Pending:   {actionAssign: Assigned, actionCancel: Cancelled},
		Assigned:  {actionAssign: Assigned, actionAccept: Accepted, actionCancel: Cancelled},
		Accepted:  {actionPickUp: PickedUp, actionCancel: Cancelled},
		PickedUp:  {actionTransit: InTransit, actionDeliver: Delivered},
		InTransit: {actionDeliver: Delivered},
		Delivered: {actionComplete: Completed},
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

// StatusFromString parses a status name as used in query filters.
func StatusFromString(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CountsTowardsCapacity reports whether a request in this status occupies its transporter's truck.
func (s Status) CountsTowardsCapacity() bool {
	return s == Assigned || s == Accepted || s == PickedUp || s == InTransit
}

// HasGoods reports whether the goods have left the cooperative.
func (s Status) HasGoods() bool {
	return s == PickedUp || s == InTransit || s == Delivered || s == Completed
}

// CapacityStatuses lists the statuses summed when checking a transporter's load.
func CapacityStatuses() []Status {
	return []Status{Assigned, Accepted, PickedUp, InTransit}
}

func (s Status) next(a action) (Status, error) {
	if to, ok := getTransitions()[s][a]; ok {
		return to, nil
	}
	return Unknown, errs.NewInvalidTransitionError("transport request", s.String(), string(a))
}
