package loyalty

import (
	"github.com/gofiber/fiber/v2"
	"github.com/primavera/pizzeria-backend/internal/customer"
	"github.com/primavera/pizzeria-backend/internal/user"
)

// Handler serves the loyalty endpoints. It needs the customer service to map
// the authenticated account onto its loyalty profile.
type Handler struct {
	repo      Repository
	customers customer.ServiceInterface
}

func NewHandler(repo Repository, customers customer.ServiceInterface) *Handler {
	return &Handler{repo: repo, customers: customers}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/loyalty/balance", h.getBalance)
	app.Get("/api/v1/loyalty/history", h.getHistory)
	app.Get("/api/v1/loyalty/program", h.getProgram)
}

func (h *Handler) getBalance(c *fiber.Ctx) error {
	cust, err := h.currentCustomer(c)
	if err != nil {
		return respondCustomerErr(c, err)
	}

	return c.JSON(fiber.Map{
		"pointsBalance":    cust.PointsBalance,
		"tier":             Tier(cust.PointsBalance),
		"pointsToNextTier": PointsToNextTier(cust.PointsBalance),
	})
}

func (h *Handler) getHistory(c *fiber.Ctx) error {
	cust, err := h.currentCustomer(c)
	if err != nil {
		return respondCustomerErr(c, err)
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	transactions, nextCursor, err := h.repo.History(cust.ID, limit, c.Query("cursor"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	resp := fiber.Map{"transactions": transactions}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	return c.JSON(resp)
}

func (h *Handler) getProgram(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"pointsPerEur":         PointsPerUnit,
		"pointsPerEurDiscount": RedemptionRate,
		"tiers": []fiber.Map{
			{"name": TierBronze, "minPoints": 0, "benefits": []string{"Earn 10 points per €1 spent"}},
			{"name": TierSilver, "minPoints": 500, "benefits": []string{"Earn 10 points per €1 spent", "Free delivery on orders over €15"}},
			{"name": TierGold, "minPoints": 1500, "benefits": []string{"Earn 10 points per €1 spent", "Free delivery on all orders", "Priority order preparation"}},
			{"name": TierPlatinum, "minPoints": 5000, "benefits": []string{"Earn 15 points per €1 spent", "Free delivery on all orders", "Priority order preparation", "Exclusive menu items"}},
		},
	})
}

func (h *Handler) currentCustomer(c *fiber.Ctx) (customer.Customer, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return customer.Customer{}, fiber.ErrUnauthorized
	}
	return h.customers.GetByUserID(userID)
}

func respondCustomerErr(c *fiber.Ctx, err error) error {
	switch err {
	case fiber.ErrUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case customer.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no loyalty profile yet"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
