package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recovery-coach-be/internal/dto"
	"recovery-coach-be/internal/pkg/serverutils"
	"recovery-coach-be/internal/service"
)

type IRiskController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
	Acknowledge(ctx *fiber.Ctx) error
}

type riskController struct {
	service service.IRiskService
}

func NewRiskController(service service.IRiskService) IRiskController {
	return &riskController{service: service}
}

func (c *riskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/risk/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/check", c.Check)
	h.Post("/intervention/:id/acknowledge", c.Acknowledge)
}

func (c *riskController) Check(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.CheckRisk(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check risk", res))
}

func (c *riskController) Acknowledge(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intervention id")
	}

	var req dto.AcknowledgeInterventionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AcknowledgeIntervention(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success acknowledge intervention", res))
}
