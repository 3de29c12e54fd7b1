package customer

import "github.com/gofiber/fiber/v2"

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/customers", h.listCustomers)
	router.Get("/customers/stats", h.customerStats)
	router.Get("/customers/:id", h.getCustomer)
	router.Post("/customers/:id/points", h.adjustPoints)
}

func (h *Handler) listCustomers(c *fiber.Ctx) error {
	filter := ListFilter{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	customers, total, err := h.service.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"customers": customers, "total": total})
}

func (h *Handler) getCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(customer)
}

func (h *Handler) customerStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(stats)
}

type adjustPointsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

func (h *Handler) adjustPoints(c *fiber.Ctx) error {
	payload := new(adjustPointsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount must be non-zero"})
	}
	if payload.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "reason is required"})
	}

	updated, err := h.service.AdjustPoints(c.Params("id"), payload.Amount, payload.Reason)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		case ErrInsufficientPoints:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}
