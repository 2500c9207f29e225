package http

import (
	"errors"
	"net/http"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const (
	headerUserID  = "X-User-ID"
	headerRole    = "X-Role"
	headerPartyID = "X-Party-ID"

	actorKey = "actor"
)

var errActorMissing = errors.New("request carries no actor")

// actorMiddleware resolves the caller from the identity headers set by the gateway.
func actorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := parseActor(c.Request().Header)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: err.Error()})
		}
		c.Set(actorKey, actor)
		return next(c)
	}
}

func parseActor(h http.Header) (kernel.Actor, error) {
	var userID uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", headerUserID, h.Get(headerUserID), &userID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Required: true}); err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerUserID, err)
	}
	role, err := kernel.RoleFromString(h.Get(headerRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	var partyID *kernel.UUID
	if raw := h.Get(headerPartyID); raw != "" {
		var id uuid.UUID
		if err = runtime.BindStyledParameterWithOptions("simple", headerPartyID, raw, &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader}); err != nil {
			return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerPartyID, err)
		}
		if partyID, err = toKernelPtr(&id); err != nil {
			return kernel.Actor{}, err
		}
	}

	user, err := toKernel(userID)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(user, role, partyID)
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errActorMissing
	}
	return actor, nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return toKernel(id)
}

// bindBody decodes the JSON body and runs the struct validation rules.
func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(dst)
}

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (rv *requestValidator) Validate(i any) error {
	if err := rv.v.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

func toKernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	return kernel.UUIDPtrFromGoogle(id)
}

func toKernel(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toKernelSlice(ids []uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		k, err := toKernel(id)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
