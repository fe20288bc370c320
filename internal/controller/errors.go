package controller

import (
	"errors"

	"sms-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// toHTTPError translates the service failure taxonomy into transport
// statuses. Unknown errors fall through to the global 500 handler.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownService):
		return fiber.NewError(fiber.StatusBadRequest, "unknown service code")
	case errors.Is(err, service.ErrInsufficientBalance):
		return fiber.NewError(fiber.StatusPaymentRequired, "insufficient balance")
	case errors.Is(err, service.ErrActivationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "activation not found")
	case errors.Is(err, service.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrAlreadyTerminal):
		return fiber.NewError(fiber.StatusConflict, "activation already finished")
	case errors.Is(err, service.ErrEarlyCancelDenied):
		return fiber.NewError(fiber.StatusConflict, "EARLY_CANCEL_DENIED")
	case errors.Is(err, service.ErrNoNumbersAvailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "no numbers available, try again later")
	case errors.Is(err, service.ErrProviderUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "sms provider unavailable")
	case errors.Is(err, service.ErrProviderRejected):
		return fiber.NewError(fiber.StatusBadGateway, "sms provider rejected the request")
	}
	return err
}
