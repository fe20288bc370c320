package controller

import (
	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/pkg/serverutils"
	"sms-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivationController interface {
	RegisterRoutes(r fiber.Router)
	Purchase(ctx *fiber.Ctx) error
	Check(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ListActive(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Services(ctx *fiber.Ctx) error
}

type activationController struct {
	activationService service.IActivationService
}

func NewActivationController(activationService service.IActivationService) IActivationController {
	return &activationController{
		activationService: activationService,
	}
}

func (c *activationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sms")
	h.Use(serverutils.JwtMiddleware)
	h.Get("services", c.Services)
	h.Get("active", c.ListActive)
	h.Get("history", c.History)
	h.Get("check/:id", c.Check)
	h.Post("", c.Purchase)
	h.Post("cancel/:id", c.Cancel)
}

func (c *activationController) Purchase(ctx *fiber.Ctx) error {
	var req dto.PurchaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.activationService.Purchase(ctx.Context(), principalFrom(ctx), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success rent number", res))
}

func (c *activationController) Check(ctx *fiber.Ctx) error {
	res, err := c.activationService.Poll(ctx.Context(), principalFrom(ctx), ctx.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check activation", res))
}

func (c *activationController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.activationService.Cancel(ctx.Context(), principalFrom(ctx), ctx.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cancel activation", res))
}

func (c *activationController) ListActive(ctx *fiber.Ctx) error {
	res, err := c.activationService.ListActive(ctx.Context(), principalFrom(ctx))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get active activations", res))
}

func (c *activationController) History(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	pageSize := ctx.QueryInt("page_size", 20)

	res, err := c.activationService.ListHistory(ctx.Context(), principalFrom(ctx), page, pageSize)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *activationController) Services(ctx *fiber.Ctx) error {
	res := c.activationService.ListServices(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get services", res))
}
