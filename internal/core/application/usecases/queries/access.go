package queries

import (
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/google/uuid"
)

func ensureReadable(authorizer ports.Authorizer, actor kernel.Actor, resource string, parties ...kernel.UUID) error {
	if err := authorizer.Authorize(actor, resource, ports.ActionRead); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	for _, p := range parties {
		if actor.ActsFor(p) {
			return nil
		}
	}
	return errs.NewAccessDeniedErrorWithReason(actor.Role().String(), resource, ports.ActionRead, "not a party")
}

func toKernel(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
