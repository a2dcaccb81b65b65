package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	facilityDomain "warehouse-facility/internal/domain/facility"
	pledgeDomain "warehouse-facility/internal/domain/pledge"
	registryDomain "warehouse-facility/internal/domain/registry"
	facilityUC "warehouse-facility/internal/usecase/facility"
)

// HeaderCallerAddress carries the verified caller identity. The gateway in
// front of this service authenticates callers; the engine only compares the
// address against the facility's stored roles.
const HeaderCallerAddress = "X-Caller-Address"

func callerAddress(c echo.Context) (string, bool) {
	addr := strings.TrimSpace(c.Request().Header.Get(HeaderCallerAddress))
	return addr, addr != ""
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(c echo.Context, err error) error {
	var invalid *facilityUC.InvalidFieldsError
	switch {
	case errors.Is(err, pledgeDomain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, pledgeDomain.ErrNotFound),
		errors.Is(err, facilityDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, pledgeDomain.ErrDuplicatePledge),
		errors.Is(err, pledgeDomain.ErrInvalidState),
		errors.Is(err, facilityDomain.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, pledgeDomain.ErrInvalidAdvanceAmount),
		errors.Is(err, pledgeDomain.ErrFundingMismatch),
		errors.Is(err, pledgeDomain.ErrEmptyAssetSet),
		errors.Is(err, pledgeDomain.ErrInvalidAssetValue),
		errors.Is(err, pledgeDomain.ErrAssetAlreadyPledged):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.As(err, &invalid):
		details := make([]FieldError, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			details = append(details, FieldError{Field: f, Message: "is invalid"})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	case errors.Is(err, registryDomain.ErrOperationFailed):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
