package handlers

import (
	"estimator/internal/app"
	stageController "estimator/internal/controllers/stages"
	. "estimator/internal/models"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type StageHandler struct {
	Handler
	stageController stageController.StageControllerInterface
}

func NewStageHandler(app app.App, router fiber.Router) *StageHandler {
	return &StageHandler{
		stageController: app.Controllers.Stage,
		Handler: Handler{
			log:        logger.New("handlers").File("stage_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StageHandler) Register() {
	auth := h.middleware.RequireAuth()

	stages := h.router.Group("/stages", auth)
	stages.Get("", h.listStages)
	stages.Post("", h.createStage)
	stages.Put("/:id", h.updateStage)
	stages.Delete("/:id", h.deleteStage)

	h.router.Get("/projects/:projectId/stages", auth, h.listProjectStages)
}

func (h *StageHandler) listStages(c *fiber.Ctx) error {
	log := handlerLog(c, "stage_handler", "listStages")

	stages, err := h.stageController.List(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve stages")
	}

	setQueryKey(c, querykeys.Stages.All())
	return c.JSON(fiber.Map{"stages": stages})
}

func (h *StageHandler) listProjectStages(c *fiber.Ctx) error {
	log := handlerLog(c, "stage_handler", "listProjectStages")

	projectID := c.Params("projectId")
	stages, err := h.stageController.ListByProject(c.UserContext(), projectID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve project stages")
	}

	setQueryKey(c, querykeys.Stages.ByProject(projectID))
	return c.JSON(fiber.Map{"stages": stages})
}

func (h *StageHandler) createStage(c *fiber.Ctx) error {
	log := handlerLog(c, "stage_handler", "createStage")

	var req StageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	stage, err := h.stageController.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create stage")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"stage": stage})
}

func (h *StageHandler) updateStage(c *fiber.Ctx) error {
	log := handlerLog(c, "stage_handler", "updateStage")

	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	var req StageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "stageID", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	stage, err := h.stageController.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update stage")
	}

	return c.JSON(fiber.Map{"stage": stage})
}

func (h *StageHandler) deleteStage(c *fiber.Ctx) error {
	log := handlerLog(c, "stage_handler", "deleteStage")

	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	if err := h.stageController.Delete(c.UserContext(), id); err != nil {
		return respondError(c, log, err, "Failed to delete stage")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
