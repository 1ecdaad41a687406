package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"startupai-backend/controllers"
	sessionhandler "startupai-backend/lib/session"
	"startupai-backend/middleware"
	apimodels "startupai-backend/models/api"
	sessionapimodels "startupai-backend/models/api/session"
)

type sessionApiController struct {
	controllers.BaseAPIController
}

func InitSessionApiRouters(app *fiber.App) {
	controller := sessionApiController{}
	app.Route("sessions", func(router fiber.Router) {
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("messages", controller.messages)
			idRoute.Post("messages", controller.append)
		})
	})
}

// @Summary Append session message
// @Tags Sessions
// @Description Idempotent optimistic append of one transcript message
// @Param   Authorization	header	string							true	"Authorization token"
// @Param	body			body	sessionapimodels.AppendData		true	"request body"
// @Param   id				path	string							true	"session ID"
// @Success 200 {object} apimodels.Response{data=sessionapimodels.AppendResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response{data=sessionapimodels.VersionConflictResult}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/sessions/{id}/messages [post]
func (c *sessionApiController) append(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload sessionapimodels.AppendData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	projectID := ctx.Query("project_id")
	result, err := sessionhandler.Instance.Append(spaceID, projectID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to append session message")
	}
	if conflict, ok := result.(sessionapimodels.VersionConflictResult); ok {
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewResponse(conflict))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Session messages
// @Tags Sessions
// @Description Transcript messages of a session in commit order
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id				path	string	true	"session ID"
// @Success 200 {object} apimodels.Response{data=[]sessionapimodels.MessageView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/sessions/{id}/messages [get]
func (c *sessionApiController) messages(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result, err := sessionhandler.Instance.Messages(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load session messages")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
