package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"startupai-backend/config"
	apimodels "startupai-backend/models/api"
)

// EngineTokenRequired guards webhooks called by the workflow engine with the
// shared bearer token.
func EngineTokenRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		expected := config.Conf.WorkflowEngine.WebhookToken
		token := strings.TrimPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")
		if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("invalid engine token"))
		}
		return ctx.Next()
	}
}
