package handlers

import (
	"errors"
	"strings"

	"estimator/internal/app"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// QueryKeyHandler exposes the key registry so clients can build the same keys
// the server caches and invalidates under.
type QueryKeyHandler struct {
	Handler
}

func NewQueryKeyHandler(app app.App, router fiber.Router) *QueryKeyHandler {
	return &QueryKeyHandler{
		Handler: Handler{
			log:        logger.New("handlers").File("queryKey_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *QueryKeyHandler) Register() {
	keys := h.router.Group("/query-keys")

	keys.Get("", h.getCatalog)
	keys.Get("/:domain/:entry", h.resolveKey)
}

func (h *QueryKeyHandler) getCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"separator": querykeys.Separator,
		"entries":   querykeys.Catalog(),
	})
}

// resolveKey builds one key. Arguments come from the comma-separated args query
// parameter in declaration order.
func (h *QueryKeyHandler) resolveKey(c *fiber.Ctx) error {
	log := handlerLog(c, "queryKey_handler", "resolveKey")

	var args []string
	if raw := c.Query("args"); raw != "" {
		args = strings.Split(raw, ",")
	}

	key, err := querykeys.Lookup(c.Params("domain"), c.Params("entry"), args...)
	switch {
	case errors.Is(err, querykeys.ErrUnknownEntry):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, querykeys.ErrArity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		_ = log.Err("Failed to resolve query key", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve query key",
		})
	}

	setQueryKey(c, key)
	return c.JSON(fiber.Map{
		"key":        key,
		"storageKey": key.String(),
		"pattern":    key.Pattern(),
	})
}
