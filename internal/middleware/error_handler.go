package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
)

// ErrorHandler renders every error as {"error":{"code","message"}}. It is
// installed as fiber's ErrorHandler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.FromContext(c.UserContext())

		var appErr *apperrors.AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			appErr = &apperrors.AppError{Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message, Status: fiberErr.Code}
		default:
			appErr = apperrors.NewInternalError(err)
		}

		if appErr.Status >= fiber.StatusInternalServerError {
			log.Error("server error on %s %s: %v", c.Method(), c.Path(), appErr)
		} else {
			log.Debug("client error on %s %s: %v", c.Method(), c.Path(), appErr)
		}

		return c.Status(appErr.Status).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case fiber.StatusUnauthorized:
		return apperrors.ErrCodeUnauthorized
	case fiber.StatusForbidden:
		return apperrors.ErrCodeForbidden
	case fiber.StatusConflict:
		return apperrors.ErrCodeConflict
	}
	if status >= fiber.StatusInternalServerError {
		return apperrors.ErrCodeInternal
	}
	return apperrors.ErrCodeBadRequest
}
