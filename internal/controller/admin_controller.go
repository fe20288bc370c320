package controller

import (
	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/pkg/serverutils"
	"sms-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListUsers(ctx *fiber.Ctx) error
	SearchUsers(ctx *fiber.Ctx) error
	ManageBalance(ctx *fiber.Ctx) error
	SetBalance(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminMiddleware)
	h.Get("users", c.ListUsers)
	h.Get("users/search", c.SearchUsers)
	h.Post("balance", c.ManageBalance)
	h.Put("balance", c.SetBalance)
	h.Get("logs", c.GetLogs)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	pageSize := ctx.QueryInt("page_size", 50)

	res, err := c.adminService.ListUsers(ctx.Context(), page, pageSize)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list users", res))
}

func (c *adminController) SearchUsers(ctx *fiber.Ctx) error {
	fragment := ctx.Query("email")
	if fragment == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email query parameter is required")
	}

	res, err := c.adminService.SearchUsers(ctx.Context(), fragment)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search users", res))
}

func (c *adminController) ManageBalance(ctx *fiber.Ctx) error {
	var req dto.ManageBalanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.ManageBalance(ctx.Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success adjust balance", res))
}

func (c *adminController) SetBalance(ctx *fiber.Ctx) error {
	var req dto.SetBalanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.SetBalance(ctx.Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set balance", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level", "error")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetLogs(ctx.Context(), level, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}
