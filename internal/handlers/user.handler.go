package handlers

import (
	"estimator/internal/app"
	userController "estimator/internal/controllers/users"
	"estimator/internal/handlers/middleware"
	. "estimator/internal/models"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        logger.New("handlers").File("user_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())

	users.Get("/me/profile", h.getProfile)
	users.Put("/me/profile", h.updateProfile)
}

// getProfile answers under the shared profile key; the server scopes it to
// the caller.
func (h *UserHandler) getProfile(c *fiber.Ctx) error {
	log := handlerLog(c, "user_handler", "getProfile")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	profile, err := h.userController.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve profile")
	}

	setQueryKey(c, querykeys.User.Profile())
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	log := handlerLog(c, "user_handler", "updateProfile")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.userController.UpdateProfile(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update profile")
	}

	setQueryKey(c, querykeys.User.Profile())
	return c.JSON(fiber.Map{"profile": profile})
}
