package order

import (
	"github.com/gofiber/fiber/v2"
	"github.com/primavera/pizzeria-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts order creation before the jwt middleware so
// guests can check out; a bearer token is still honoured when present.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.myOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.listAll)
	router.Get("/orders/active", h.activeOrders)
	router.Get("/orders/stats", h.orderStats)
	router.Patch("/orders/:id/status", h.updateStatus)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(CreateInput)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, _ := user.OptionalUserID(c)

	created, err := h.service.Create(userID, *payload)
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) myOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	page, err := h.service.MyOrders(userID, c.QueryInt("limit", 10), c.Query("cursor"))
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.GetForUser(userID, c.Params("id"))
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(ord)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	page, err := h.service.ListAll(c.Query("status"), c.QueryInt("limit", 50), c.Query("cursor"))
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) activeOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListActive()
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) orderStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(stats)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(c.Params("id"), payload.Status)
	if err != nil {
		return respondOrderErr(c, err)
	}
	return c.JSON(updated)
}

func respondOrderErr(c *fiber.Ctx, err error) error {
	switch err {
	case ErrEmptyOrder, ErrInvalidQuantity, ErrPhoneRequired, ErrAddressRequired,
		ErrGuestInfoRequired, ErrProductUnavailable, ErrInvalidDelivery,
		ErrInvalidPayment, ErrInvalidStatus, ErrInvalidTransition:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
