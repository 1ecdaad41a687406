package webhooksapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"startupai-backend/controllers"
	approvalhandler "startupai-backend/lib/approval"
	apimodels "startupai-backend/models/api"
	approvalapimodels "startupai-backend/models/api/approval"
)

type workflowWebhookController struct {
	controllers.BaseAPIController
}

func InitWorkflowWebhookApiRouters(app *fiber.App) {
	controller := workflowWebhookController{}
	app.Route("workflow", func(router fiber.Router) {
		router.Post("approvals", controller.createApproval)
	})
}

// @Summary Workflow pause webhook
// @Tags Webhooks. Workflow engine
// @Description Called by the workflow engine when a run pauses at a checkpoint
// @Param   Authorization	header	string									true	"Engine token"
// @Param	body			body	approvalapimodels.ApprovalCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/webhooks/workflow/approvals [post]
func (c *workflowWebhookController) createApproval(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := ctx.Get("X-Space-ID")
	if spaceID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("X-Space-ID header is required"))
	}

	result, err := approvalhandler.Instance.Create(spaceID, payload)
	if err != nil {
		if errors.Is(err, approvalhandler.ErrUnknownCheckpoint) {
			// fail closed: the engine knows a checkpoint this build does not
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeUnknownCheckpoint, err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to create approval request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
