package controller

import (
	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/pkg/serverutils"
	"sms-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetBalance(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{
		userService: userService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(serverutils.JwtMiddleware)
	h.Get("balance", c.GetBalance)
	h.Get("profile", c.GetProfile)
}

func (c *userController) GetBalance(ctx *fiber.Ctx) error {
	res, err := c.userService.GetBalance(ctx.Context(), principalFrom(ctx))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get balance", res))
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.userService.GetProfile(ctx.Context(), principalFrom(ctx))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func principalFrom(ctx *fiber.Ctx) dto.AuthPrincipal {
	sub, _ := ctx.Locals("subject_id").(string)
	email, _ := ctx.Locals("email").(string)
	return dto.AuthPrincipal{SubjectId: sub, Email: email}
}
