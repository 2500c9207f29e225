package http

import (
	"errors"
	"net/http"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// conflicts are business rule violations against the current state.
var conflicts = []error{
	errs.ErrInvalidTransition,
	errs.ErrVersionIsInvalid,
	services.ErrInsufficientQuantity,
	services.ErrLotUnavailable,
	services.ErrTransporterNotFound,
	commands.ErrQuantityMismatch,
	commands.ErrContractExists,
	commands.ErrGoodsAlreadyPickedUp,
	commands.ErrAlreadySettled,
	commands.ErrInsufficientListing,
	commands.ErrFormationInProgress,
	commands.ErrEscrowExists,
	ports.ErrLockNotObtained,
	lot.ErrQuantityIsFrozen,
	storage.ErrInsufficientCapacity,
	transport.ErrTransporterInactive,
	transport.ErrCapacityExceeded,
	transport.ErrScheduleConflict,
}

// unprocessable are requests that are well formed but cannot be honoured.
var unprocessable = []error{
	commands.ErrOrderNotAccepted,
	commands.ErrEscrowNotSettled,
	commands.ErrLoadExceedsContract,
	services.ErrNothingToSettle,
	listing.ErrCropMismatch,
	listing.ErrQuantityExceedsListing,
	listing.ErrOfferBelowMinimum,
}

func statusOf(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAccessDenied), errors.Is(err, transport.ErrNotAssignee):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrAdapterTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, errs.ErrAdapterFailure):
		return http.StatusBadGateway
	}
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = http.StatusText(code)
	}
	return c.JSON(code, Error{Code: code, Message: msg})
}
