package kernel

import (
	"errors"
	"fmt"
	"strings"

	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"
)

// Role is the closed set of actor kinds allowed to drive pipeline transitions.
type Role int

const (
	UnknownRole Role = iota
	Buyer
	CooperativeManager
	Transporter
	Farmer
	Admin
	StorageOperator
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:        "Unknown",
		Buyer:              "Buyer",
		CooperativeManager: "CooperativeManager",
		Transporter:        "Transporter",
		Farmer:             "Farmer",
		Admin:              "Admin",
		StorageOperator:    "StorageOperator",
	}
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

func (r Role) Validate() error {
	if r == UnknownRole {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// RoleFromString parses a role name case-insensitively.
func RoleFromString(s string) (Role, error) {
	for r, name := range getRoleStrings() {
		if r != UnknownRole && strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a valid role", s))
}

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the acting user of an inbound operation. PartyID is the buyer, cooperative,
// transporter, farmer or storage facility the user acts for; admins carry no party.
type Actor struct {
	userID  UUID
	role    Role
	partyID *UUID
	guard   guard.ConstructorGuard
}

func NewActor(userID UUID, role Role, partyID *UUID) (Actor, error) {
	a := Actor{guard: guard.NewConstructorGuard()}

	var partyErr error
	if partyID != nil {
		partyErr = partyID.Validate()
	} else if role != Admin {
		partyErr = errs.NewValueIsRequiredError("party id")
	}

	if err := errors.Join(userID.Validate(), role.Validate(), partyErr); err != nil {
		return Actor{}, err
	}

	a.userID = userID
	a.role = role
	a.partyID = partyID
	return a, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) UserID() UUID {
	return a.userID
}

func (a Actor) Role() Role {
	return a.role
}

// PartyID returns nil for admins.
func (a Actor) PartyID() *UUID {
	if a.partyID == nil {
		return nil
	}
	id := *a.partyID
	return &id
}

func (a Actor) IsAdmin() bool {
	return a.role == Admin
}

// ActsFor reports whether the actor represents the given party.
func (a Actor) ActsFor(partyID UUID) bool {
	return a.partyID != nil && a.partyID.IsEqual(partyID)
}
