package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"startupai-backend/controllers"
	approvalhandler "startupai-backend/lib/approval"
	filestorage "startupai-backend/lib/file-storage"
	"startupai-backend/middleware"
	apimodels "startupai-backend/models/api"
	approvalapimodels "startupai-backend/models/api/approval"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	app.Route("approvals", func(router fiber.Router) {
		router.Get("", controller.listPending)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("history", controller.history)
			idRoute.Post("decision", controller.decide)
			idRoute.Post("evidence", controller.uploadEvidence)
			idRoute.Get("evidence", controller.listEvidence)
		})
	})
	app.Route("evidence", func(router fiber.Router) {
		router.Get(":fileId", controller.downloadEvidence)
	})
}

// @Summary Pending approval list
// @Tags Approvals
// @Description Pending approval requests of the space, optionally filtered by project
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   project_id		query	string	false	"project ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals [get]
func (c *approvalApiController) listPending(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	projectID := ctx.Query("project_id")
	result, err := approvalhandler.Instance.ListPending(spaceID, projectID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load pending approvals")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Approval request
// @Tags Approvals
// @Description Approval request by ID
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id				path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/{id} [get]
func (c *approvalApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result, err := approvalhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.sendDecisionError(ctx, err, "Failed to load approval request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Approval history
// @Tags Approvals
// @Description Decision audit trail of an approval request
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id				path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/{id}/history [get]
func (c *approvalApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result, err := approvalhandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load approval history")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Decide approval
// @Tags Approvals
// @Description Resolve a pending approval request and resume the paused workflow run
// @Param   Authorization	header	string								true	"Authorization token"
// @Param	body			body	approvalapimodels.DecideData		true	"request body"
// @Param   id				path	string								true	"rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/{id}/decision [post]
func (c *approvalApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.DecideData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeInvalidAction, err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := approvalhandler.Instance.Decide(ctx.UserContext(), spaceID, id, payload, userID)
	if err != nil {
		return c.sendDecisionError(ctx, err, "Failed to resolve approval request")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

func (c *approvalApiController) sendDecisionError(ctx *fiber.Ctx, err error, hMsg string) error {
	switch {
	case errors.Is(err, approvalhandler.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).
			JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeNotFound, err.Error()))
	case errors.Is(err, approvalhandler.ErrAlreadyDecided):
		return ctx.Status(fiber.StatusBadRequest).
			JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeAlreadyDecided, err.Error()))
	case errors.Is(err, approvalhandler.ErrInvalidAction):
		return ctx.Status(fiber.StatusBadRequest).
			JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeInvalidAction, err.Error()))
	case errors.Is(err, approvalhandler.ErrUnknownCheckpoint):
		// programming/config defect, not a user error
		return ctx.Status(fiber.StatusUnprocessableEntity).
			JSON(apimodels.NewErrorWithCode(approvalapimodels.CodeUnknownCheckpoint, err.Error()))
	}
	return c.SendError(ctx, c.GetLogger(ctx), err, hMsg)
}

// @Summary Upload evidence
// @Tags Approvals
// @Description Attach an evidence file to an approval request
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id				path	string	true	"rec ID"
// @Param   file			formData	file	true	"evidence file"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.EvidenceFileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/{id}/evidence [post]
func (c *approvalApiController) uploadEvidence(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read uploaded file")
	}

	spaceID := middleware.GetUserSpace(ctx)
	result, err := filestorage.Instance.UploadEvidence(ctx.UserContext(), spaceID, id,
		fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to upload evidence file")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Evidence list
// @Tags Approvals
// @Description Evidence files attached to an approval request
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id				path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.EvidenceFileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/{id}/evidence [get]
func (c *approvalApiController) listEvidence(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result, err := filestorage.Instance.ListEvidence(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load evidence files")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Download evidence
// @Tags Approvals
// @Description Download an evidence file
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   fileId			path	string	true	"file ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/evidence/{fileId} [get]
func (c *approvalApiController) downloadEvidence(ctx *fiber.Ctx) error {
	fileID, err := c.GetIDByKey(ctx, "fileId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	data, view, err := filestorage.Instance.GetEvidence(ctx.UserContext(), spaceID, fileID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to download evidence file")
	}
	if view == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("file not found"))
	}
	ctx.Set(fiber.HeaderContentType, view.ContentType)
	return ctx.Status(fiber.StatusOK).Send(data)
}
