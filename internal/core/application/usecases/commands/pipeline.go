package commands

import (
	"context"
	"errors"
	"time"

	"agritrade/internal/core/domain/model/audit"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

var (
	ErrQuantityMismatch     = errors.New("lots do not cover the order quantity")
	ErrOrderNotAccepted     = errors.New("order is not accepted")
	ErrContractExists       = errors.New("contract already formed for order")
	ErrGoodsAlreadyPickedUp = errors.New("goods already picked up")
	ErrEscrowNotSettled     = errors.New("escrow is not settled")
	ErrAlreadySettled       = errors.New("contract already settled")
	ErrInsufficientListing  = errors.New("listed lots do not cover the listing quantity")
	ErrFormationInProgress  = errors.New("contract formation for this order is already running")
	ErrEscrowExists         = errors.New("escrow already initiated for contract")
	ErrLoadExceedsContract  = errors.New("transport load exceeds the contract quantity")
)

// ensureAllowed runs the role check and then requires the actor to act for one of
// parties. Admins pass the party check.
func ensureAllowed(authorizer ports.Authorizer, actor kernel.Actor, resource, action string, parties ...kernel.UUID) error {
	if err := authorizer.Authorize(actor, resource, action); err != nil {
		return err
	}
	if actor.IsAdmin() || len(parties) == 0 {
		return nil
	}
	for _, p := range parties {
		if actor.ActsFor(p) {
			return nil
		}
	}
	return errs.NewAccessDeniedErrorWithReason(actor.Role().String(), resource, action, "not a party")
}

func writeAudit(
	ctx context.Context,
	uow AuditRepoFactory,
	action string,
	actor kernel.Actor,
	entityID kernel.UUID,
	metadata map[string]any,
) error {
	record, err := audit.NewRecord(action, actor, entityID, metadata, time.Now())
	if err != nil {
		return err
	}
	return uow.AuditRepository().Add(ctx, record)
}
