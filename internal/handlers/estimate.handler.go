package handlers

import (
	"estimator/internal/app"
	estimateController "estimator/internal/controllers/estimates"
	"estimator/internal/handlers/middleware"
	. "estimator/internal/models"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type EstimateHandler struct {
	Handler
	estimateController estimateController.EstimateControllerInterface
}

func NewEstimateHandler(app app.App, router fiber.Router) *EstimateHandler {
	return &EstimateHandler{
		estimateController: app.Controllers.Estimate,
		Handler: Handler{
			log:        logger.New("handlers").File("estimate_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EstimateHandler) Register() {
	estimates := h.router.Group("/estimates", h.middleware.RequireAuth())

	estimates.Get("", h.listEstimates)
	estimates.Post("", h.createEstimate)
	estimates.Get("/:id", h.getEstimate)
	estimates.Put("/:id", h.updateEstimate)
	estimates.Delete("/:id", h.deleteEstimate)
}

func (h *EstimateHandler) listEstimates(c *fiber.Ctx) error {
	log := handlerLog(c, "estimate_handler", "listEstimates")

	estimates, err := h.estimateController.List(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve estimates")
	}

	setQueryKey(c, querykeys.Estimates.All())
	return c.JSON(fiber.Map{"estimates": estimates})
}

func (h *EstimateHandler) getEstimate(c *fiber.Ctx) error {
	log := handlerLog(c, "estimate_handler", "getEstimate")

	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	estimate, err := h.estimateController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve estimate")
	}

	setQueryKey(c, querykeys.Estimates.Detail(id.String()))
	return c.JSON(fiber.Map{"estimate": estimate})
}

func (h *EstimateHandler) createEstimate(c *fiber.Ctx) error {
	log := handlerLog(c, "estimate_handler", "createEstimate")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	estimate, err := h.estimateController.Create(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err, "Failed to create estimate")
	}

	setQueryKey(c, querykeys.Estimates.Detail(estimate.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"estimate": estimate})
}

func (h *EstimateHandler) updateEstimate(c *fiber.Ctx) error {
	log := handlerLog(c, "estimate_handler", "updateEstimate")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "estimateID", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	estimate, err := h.estimateController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update estimate")
	}

	setQueryKey(c, querykeys.Estimates.Detail(id.String()))
	return c.JSON(fiber.Map{"estimate": estimate})
}

func (h *EstimateHandler) deleteEstimate(c *fiber.Ctx) error {
	log := handlerLog(c, "estimate_handler", "deleteEstimate")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	if err := h.estimateController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to delete estimate")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
